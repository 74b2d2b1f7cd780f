package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"surfboard-checkout-backend/internal/model"
)

func (s *Store) CreateCheckout(ctx context.Context, c *model.Checkout) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *Store) FindCheckout(ctx context.Context, id string) (*model.Checkout, error) {
	var c model.Checkout
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindActiveCheckoutByBoard returns the board's single active checkout, or
// nil when the board has none.
func (s *Store) FindActiveCheckoutByBoard(ctx context.Context, boardID string) (*model.Checkout, error) {
	var c model.Checkout
	err := s.db.WithContext(ctx).
		Where("board_id = ? AND status = ?", boardID, model.CheckoutStatusActive).
		Order("checkout_time DESC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListActiveCheckoutsByBoard returns every active checkout for the board.
// Used by the availability check, which must inspect all windows.
func (s *Store) ListActiveCheckoutsByBoard(ctx context.Context, boardID string) ([]model.Checkout, error) {
	var cs []model.Checkout
	err := s.db.WithContext(ctx).
		Where("board_id = ? AND status = ?", boardID, model.CheckoutStatusActive).
		Find(&cs).Error
	return cs, err
}

func (s *Store) ListCheckoutsByUser(ctx context.Context, userID string, activeOnly bool, limit int) ([]model.Checkout, error) {
	q := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("checkout_time DESC")
	if activeOnly {
		q = q.Where("status = ?", model.CheckoutStatusActive)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var cs []model.Checkout
	err := q.Find(&cs).Error
	return cs, err
}

func (s *Store) ListCheckoutsByBoard(ctx context.Context, boardID string, limit int) ([]model.Checkout, error) {
	q := s.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("checkout_time DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var cs []model.Checkout
	err := q.Find(&cs).Error
	return cs, err
}

// CloseCheckout moves an active checkout to a terminal status, recording the
// actual return time when one is supplied. The status guard in the WHERE
// clause makes the transition race-safe: closing an already-closed checkout
// affects zero rows and reports false.
func (s *Store) CloseCheckout(ctx context.Context, checkoutID, toStatus string, returnedAt *time.Time) (bool, error) {
	updates := map[string]any{"status": toStatus}
	if returnedAt != nil {
		updates["actual_return_time"] = *returnedAt
	}
	res := s.db.WithContext(ctx).Model(&model.Checkout{}).
		Where("id = ? AND status = ?", checkoutID, model.CheckoutStatusActive).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
