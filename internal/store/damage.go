package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"surfboard-checkout-backend/internal/model"
)

func (s *Store) CreateDamageReport(ctx context.Context, d *model.DamageReport) error {
	return s.db.WithContext(ctx).Create(d).Error
}

func (s *Store) FindDamageReport(ctx context.Context, id string) (*model.DamageReport, error) {
	var d model.DamageReport
	if err := s.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDamageReportsByLocation returns the damage queue for a location,
// newest first, optionally filtered by status.
func (s *Store) ListDamageReportsByLocation(ctx context.Context, locationID, status string) ([]model.DamageReport, error) {
	q := s.db.WithContext(ctx).Model(&model.DamageReport{}).
		Joins("JOIN boards ON boards.id = damage_reports.board_id").
		Where("boards.location_id = ?", locationID).
		Order("damage_reports.created_at DESC")
	if status != "" {
		q = q.Where("damage_reports.status = ?", status)
	}
	var ds []model.DamageReport
	err := q.Find(&ds).Error
	return ds, err
}

func (s *Store) UpdateDamageReportStatus(ctx context.Context, reportID, status, adminNotes string) error {
	updates := map[string]any{"status": status}
	if adminNotes != "" {
		updates["admin_notes"] = adminNotes
	}
	return s.db.WithContext(ctx).Model(&model.DamageReport{}).
		Where("id = ?", reportID).
		Updates(updates).Error
}

// Ratings

// UpsertRating inserts a rating or, when the user has already rated the
// board, overwrites the stars and comment.
func (s *Store) UpsertRating(ctx context.Context, r *model.BoardRating) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "board_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
	}).Create(r).Error
}

func (s *Store) ListRatingsByBoard(ctx context.Context, boardID string) ([]model.BoardRating, error) {
	var rs []model.BoardRating
	err := s.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("updated_at DESC").
		Find(&rs).Error
	return rs, err
}

// AverageRating returns the board's mean rating and vote count; a board with
// no ratings averages zero.
func (s *Store) AverageRating(ctx context.Context, boardID string) (float64, int64, error) {
	var out struct {
		Avg   float64
		Count int64
	}
	err := s.db.WithContext(ctx).Model(&model.BoardRating{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("board_id = ?", boardID).
		Scan(&out).Error
	return out.Avg, out.Count, err
}

// Push subscriptions

func (s *Store) UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth"}),
	}).Create(sub).Error
}

func (s *Store) FindSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	if err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Store) SubscriptionsByUser(ctx context.Context, userID string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&subs).Error
	return subs, err
}

func (s *Store) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}

// IsRecordNotFound reports whether err is gorm's not-found sentinel.
func IsRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
