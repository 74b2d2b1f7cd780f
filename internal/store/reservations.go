package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"surfboard-checkout-backend/internal/model"
)

func (s *Store) CreateReservation(ctx context.Context, r *model.Reservation) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *Store) FindReservation(ctx context.Context, id string) (*model.Reservation, error) {
	var r model.Reservation
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// PendingReservationsByBoard returns the board's waiting list in serving
// order: unlock_time ascending, ties broken by reservation_time (first
// requested wins).
func (s *Store) PendingReservationsByBoard(ctx context.Context, boardID string) ([]model.Reservation, error) {
	var rs []model.Reservation
	err := s.db.WithContext(ctx).
		Where("board_id = ? AND status = ?", boardID, model.ReservationStatusPending).
		Order("unlock_time ASC, reservation_time ASC").
		Find(&rs).Error
	return rs, err
}

// OpenReservationsByBoard returns pending and available reservations, the
// set the availability check compares query windows against.
func (s *Store) OpenReservationsByBoard(ctx context.Context, boardID string) ([]model.Reservation, error) {
	var rs []model.Reservation
	err := s.db.WithContext(ctx).
		Where("board_id = ? AND status IN ?", boardID,
			[]string{model.ReservationStatusPending, model.ReservationStatusAvailable}).
		Find(&rs).Error
	return rs, err
}

// HeadUnlockedReservation returns the first pending reservation in serving
// order whose unlock time has elapsed, or nil when none qualifies.
func (s *Store) HeadUnlockedReservation(ctx context.Context, boardID string, now time.Time) (*model.Reservation, error) {
	var r model.Reservation
	err := s.db.WithContext(ctx).
		Where("board_id = ? AND status = ? AND unlock_time <= ?",
			boardID, model.ReservationStatusPending, now).
		Order("unlock_time ASC, reservation_time ASC").
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// FindPendingByUserAndCheckout reports whether the user already holds a
// pending reservation against the given checkout.
func (s *Store) FindPendingByUserAndCheckout(ctx context.Context, userID, checkoutID string) (*model.Reservation, error) {
	var r model.Reservation
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND checkout_id = ? AND status = ?",
			userID, checkoutID, model.ReservationStatusPending).
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) ListReservationsByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	var rs []model.Reservation
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("unlock_time ASC").
		Find(&rs).Error
	return rs, err
}

// UpdateReservationStatusIf is the reservation counterpart of the board
// compare-and-swap: the transition only fires from the expected status.
func (s *Store) UpdateReservationStatusIf(ctx context.Context, reservationID, from, to string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&model.Reservation{}).
		Where("id = ? AND status = ?", reservationID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// PendingNotifications returns promoted reservations that have not been
// notified yet, oldest first. The notification_sent flag keeps the polling
// collaborator idempotent.
func (s *Store) PendingNotifications(ctx context.Context, now time.Time) ([]model.Reservation, error) {
	var rs []model.Reservation
	err := s.db.WithContext(ctx).
		Where("status = ? AND notification_sent = ? AND unlock_time <= ?",
			model.ReservationStatusAvailable, false, now).
		Order("unlock_time ASC").
		Find(&rs).Error
	return rs, err
}

// BoardsWithUnlockedWaiters lists distinct available boards that have a
// pending reservation whose unlock time has elapsed. The poller promotes
// these when the in-line promotion at return time was missed.
func (s *Store) BoardsWithUnlockedWaiters(ctx context.Context, now time.Time) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&model.Reservation{}).
		Distinct("reservations.board_id").
		Joins("JOIN boards ON boards.id = reservations.board_id").
		Where("reservations.status = ? AND reservations.unlock_time <= ? AND boards.status = ?",
			model.ReservationStatusPending, now, model.BoardStatusAvailable).
		Pluck("reservations.board_id", &ids).Error
	return ids, err
}

func (s *Store) MarkNotificationSent(ctx context.Context, reservationID string) error {
	return s.db.WithContext(ctx).Model(&model.Reservation{}).
		Where("id = ?", reservationID).
		Update("notification_sent", true).Error
}
