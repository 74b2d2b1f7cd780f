package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"surfboard-checkout-backend/internal/model"
	"surfboard-checkout-backend/internal/store"
	"surfboard-checkout-backend/internal/tz"
)

// ReservationService is the reservation queue: a per-board waiting list
// keyed by unlock time. It is the only writer of Reservation.status.
type ReservationService struct {
	store *store.Store
	now   func() time.Time
}

func NewReservationService(st *store.Store) *ReservationService {
	return &ReservationService{
		store: st,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create queues a claim on the board behind the given active checkout. The
// reservation unlocks at that checkout's expected return time.
func (s *ReservationService) Create(ctx context.Context, userID, boardID, checkoutID, locationID, ip string) (*model.Reservation, error) {
	var reservation *model.Reservation

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		checkout, err := tx.FindCheckout(ctx, checkoutID)
		if err != nil {
			if store.IsRecordNotFound(err) {
				return ErrCheckoutNotFound
			}
			return err
		}
		if checkout.BoardID != boardID {
			return ErrCheckoutBoardMismatch
		}
		if !checkout.IsActive() {
			return ErrCheckoutNotActive
		}

		location, err := tx.FindLocation(ctx, locationID)
		if err != nil {
			if store.IsRecordNotFound(err) {
				return ErrLocationNotFound
			}
			return err
		}
		if tz.UnlockPassed(checkout.ExpectedReturnTime, tz.Resolve(location.Timezone), s.now()) {
			return ErrReturnTimePassed
		}

		existing, err := tx.FindPendingByUserAndCheckout(ctx, userID, checkoutID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrReservationExists
		}

		nowUTC := s.now()
		unlock := checkout.ExpectedReturnTime
		reservation = &model.Reservation{
			ID:              uuid.NewString(),
			UserID:          userID,
			BoardID:         boardID,
			CheckoutID:      checkoutID,
			ReservationTime: nowUTC,
			UnlockTime:      unlock,
			Status:          model.ReservationStatusPending,
		}
		if err := tx.CreateReservation(ctx, reservation); err != nil {
			return err
		}

		return tx.AppendActivity(ctx, &model.ActivityLog{
			ID:         uuid.NewString(),
			UserID:     userID,
			BoardID:    boardID,
			LocationID: locationID,
			ActionType: model.ActionReservation,
			Details: model.DetailsJSON(model.ReservationDetails{
				ReservationID: reservation.ID,
				CheckoutID:    checkoutID,
				UnlockTime:    &unlock,
			}),
			Timestamp: nowUTC,
			IPAddress: ip,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("reservation %s created for board %s", reservation.ID, boardID)
	return reservation, nil
}

// QueueFor returns the board's waiting list in serving order.
func (s *ReservationService) QueueFor(ctx context.Context, boardID string) ([]model.Reservation, error) {
	return s.store.PendingReservationsByBoard(ctx, boardID)
}

// ListForUser returns the user's reservations, soonest unlock first.
func (s *ReservationService) ListForUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	return s.store.ListReservationsByUser(ctx, userID)
}

// promoteHead moves the head of the board's queue to available, provided its
// unlock time has elapsed. Only the head is promoted; entries behind it stay
// pending until the head resolves, since a single board can only be claimed
// by one holder. Runs inside the caller's transaction.
func (s *ReservationService) promoteHead(ctx context.Context, tx *store.Store, boardID string, now time.Time) (*model.Reservation, error) {
	head, err := tx.HeadUnlockedReservation(ctx, boardID, now)
	if err != nil {
		return nil, err
	}
	if head == nil {
		return nil, nil
	}
	swapped, err := tx.UpdateReservationStatusIf(ctx, head.ID,
		model.ReservationStatusPending, model.ReservationStatusAvailable)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, nil
	}
	head.Status = model.ReservationStatusAvailable
	return head, nil
}

// PromoteIfUnlocked promotes the head of the board's queue if its unlock
// time has elapsed, returning the promoted reservation or nil.
func (s *ReservationService) PromoteIfUnlocked(ctx context.Context, boardID string) (*model.Reservation, error) {
	var promoted *model.Reservation
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		promoted, err = s.promoteHead(ctx, tx, boardID, s.now())
		return err
	})
	return promoted, err
}

// PromoteUnlocked sweeps every available board with an unlocked waiter and
// promotes each queue head, returning the promoted reservation IDs. The
// poller runs this to catch boards returned before their waiter's unlock
// time arrived.
func (s *ReservationService) PromoteUnlocked(ctx context.Context) ([]string, error) {
	now := s.now()
	boardIDs, err := s.store.BoardsWithUnlockedWaiters(ctx, now)
	if err != nil {
		return nil, err
	}
	var promoted []string
	for _, boardID := range boardIDs {
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			head, err := s.promoteHead(ctx, tx, boardID, now)
			if err != nil {
				return err
			}
			if head != nil {
				promoted = append(promoted, head.ID)
			}
			return nil
		})
		if err != nil {
			return promoted, err
		}
	}
	return promoted, nil
}

// Fulfill claims an available reservation. Fulfilled is terminal.
func (s *ReservationService) Fulfill(ctx context.Context, reservationID, userID, ip string) (*model.Reservation, error) {
	var reservation *model.Reservation

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		reservation, err = tx.FindReservation(ctx, reservationID)
		if err != nil {
			if store.IsRecordNotFound(err) {
				return ErrReservationNotFound
			}
			return err
		}
		if reservation.UserID != userID {
			return ErrReservationNotOwned
		}
		swapped, err := tx.UpdateReservationStatusIf(ctx, reservationID,
			model.ReservationStatusAvailable, model.ReservationStatusFulfilled)
		if err != nil {
			return err
		}
		if !swapped {
			return ErrReservationNotAvailable
		}
		reservation.Status = model.ReservationStatusFulfilled

		return tx.AppendActivity(ctx, &model.ActivityLog{
			ID:         uuid.NewString(),
			UserID:     userID,
			BoardID:    reservation.BoardID,
			ActionType: model.ActionReservation,
			Details: model.DetailsJSON(model.ReservationDetails{
				ReservationID: reservationID,
				Action:        "fulfilled",
			}),
			Timestamp: s.now(),
			IPAddress: ip,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("reservation %s fulfilled by user %s", reservationID, userID)
	return reservation, nil
}

// Cancel withdraws a pending reservation. A reservation that has already
// been promoted to available cannot be cancelled, only fulfilled.
func (s *ReservationService) Cancel(ctx context.Context, reservationID, userID, ip string) (*model.Reservation, error) {
	var reservation *model.Reservation

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		reservation, err = tx.FindReservation(ctx, reservationID)
		if err != nil {
			if store.IsRecordNotFound(err) {
				return ErrReservationNotFound
			}
			return err
		}
		if reservation.UserID != userID {
			return ErrReservationNotOwned
		}
		swapped, err := tx.UpdateReservationStatusIf(ctx, reservationID,
			model.ReservationStatusPending, model.ReservationStatusCancelled)
		if err != nil {
			return err
		}
		if !swapped {
			return ErrReservationCannotCancel
		}
		reservation.Status = model.ReservationStatusCancelled

		return tx.AppendActivity(ctx, &model.ActivityLog{
			ID:         uuid.NewString(),
			UserID:     userID,
			BoardID:    reservation.BoardID,
			ActionType: model.ActionCancelReservation,
			Details: model.DetailsJSON(model.ReservationDetails{
				ReservationID: reservationID,
				Action:        "cancelled",
			}),
			Timestamp: s.now(),
			IPAddress: ip,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("reservation %s cancelled by user %s", reservationID, userID)
	return reservation, nil
}

// PendingNotifications returns reservations whose unlock time has elapsed
// and which have not yet been notified. The poller feeds these to the
// notification worker and marks them sent; the flag makes repeated polling
// idempotent.
func (s *ReservationService) PendingNotifications(ctx context.Context) ([]model.Reservation, error) {
	return s.store.PendingNotifications(ctx, s.now())
}

// MarkNotificationSent flags a reservation as notified.
func (s *ReservationService) MarkNotificationSent(ctx context.Context, reservationID string) error {
	return s.store.MarkNotificationSent(ctx, reservationID)
}
