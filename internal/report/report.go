package report

import (
	"context"
	"time"

	"surfboard-checkout-backend/internal/model"
	"surfboard-checkout-backend/internal/store"
)

// Service computes usage analytics with raw aggregate queries over the
// same schema the core writes. Everything here is read-only.
type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// BoardUsage is one board's completed-checkout count.
type BoardUsage struct {
	BoardID       string `gorm:"column:id" json:"boardId"`
	Name          string `json:"name"`
	Brand         string `json:"brand"`
	Size          string `json:"size"`
	CheckoutCount int64  `json:"checkoutCount"`
}

// UserUsage is one user's checkout count over the query range.
type UserUsage struct {
	UserID        string `gorm:"column:id" json:"userId"`
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	CheckoutCount int64  `json:"checkoutCount"`
}

// DailyUsage is the checkout count for one calendar date.
type DailyUsage struct {
	Date          string `json:"date"`
	CheckoutCount int64  `json:"checkoutCount"`
}

// BoardDamage is one board's damage report count.
type BoardDamage struct {
	BoardID     string `gorm:"column:id" json:"boardId"`
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	DamageCount int64  `json:"damageCount"`
}

// BoardRatingSummary is one board's aggregate rating.
type BoardRatingSummary struct {
	BoardID     string  `gorm:"column:id" json:"boardId"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	AvgRating   float64 `json:"avgRating"`
	RatingCount int64   `json:"ratingCount"`
}

// UsageReport bundles the per-location analytics for one time range.
type UsageReport struct {
	LocationID     string               `json:"locationId"`
	Start          time.Time            `json:"start"`
	End            time.Time            `json:"end"`
	TotalCheckouts int64                `json:"totalCheckouts"`
	FavoriteBoards []BoardUsage         `json:"favoriteBoards"`
	UsagePerUser   []UserUsage          `json:"usagePerUser"`
	DailyTrend     []DailyUsage         `json:"dailyTrend"`
	DamageByBoard  []BoardDamage        `json:"damageByBoard"`
	RatingsByBoard []BoardRatingSummary `json:"ratingsByBoard"`
}

// FavoriteBoards returns the most completed-checkout boards at a location.
func (s *Service) FavoriteBoards(ctx context.Context, locationID string, limit int) ([]BoardUsage, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []BoardUsage
	err := s.store.DB().WithContext(ctx).
		Table("boards b").
		Select("b.id, b.name, b.brand, b.size, COUNT(c.id) AS checkout_count").
		Joins("LEFT JOIN checkouts c ON b.id = c.board_id AND c.status = ?", model.CheckoutStatusReturned).
		Where("b.location_id = ?", locationID).
		Group("b.id, b.name, b.brand, b.size").
		Order("checkout_count DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

// UsagePerUser returns checkout counts per user at a location over a range.
func (s *Service) UsagePerUser(ctx context.Context, locationID string, start, end time.Time) ([]UserUsage, error) {
	var out []UserUsage
	err := s.store.DB().WithContext(ctx).
		Table("users u").
		Select("u.id, u.full_name, u.email, COUNT(c.id) AS checkout_count").
		Joins("LEFT JOIN checkouts c ON u.id = c.user_id AND c.checkout_time >= ? AND c.checkout_time <= ?", start, end).
		Where("u.location_id = ?", locationID).
		Group("u.id, u.full_name, u.email").
		Order("checkout_count DESC").
		Scan(&out).Error
	return out, err
}

// DailyTrend returns per-date checkout counts for a location over a range.
func (s *Service) DailyTrend(ctx context.Context, locationID string, start, end time.Time) ([]DailyUsage, error) {
	var out []DailyUsage
	err := s.store.DB().WithContext(ctx).
		Table("checkouts c").
		Select("DATE(c.checkout_time) AS date, COUNT(*) AS checkout_count").
		Joins("JOIN boards b ON c.board_id = b.id").
		Where("b.location_id = ? AND c.checkout_time >= ? AND c.checkout_time <= ?", locationID, start, end).
		Group("DATE(c.checkout_time)").
		Order("date ASC").
		Scan(&out).Error
	return out, err
}

// DamageByBoard returns damage report counts for boards that have any.
func (s *Service) DamageByBoard(ctx context.Context, locationID string) ([]BoardDamage, error) {
	var out []BoardDamage
	err := s.store.DB().WithContext(ctx).
		Table("boards b").
		Select("b.id, b.name, b.brand, COUNT(dr.id) AS damage_count").
		Joins("LEFT JOIN damage_reports dr ON b.id = dr.board_id").
		Where("b.location_id = ?", locationID).
		Group("b.id, b.name, b.brand").
		Having("COUNT(dr.id) > 0").
		Order("damage_count DESC").
		Scan(&out).Error
	return out, err
}

// RatingsByBoard returns aggregate ratings for boards that have any.
func (s *Service) RatingsByBoard(ctx context.Context, locationID string) ([]BoardRatingSummary, error) {
	var out []BoardRatingSummary
	err := s.store.DB().WithContext(ctx).
		Table("boards b").
		Select("b.id, b.name, b.brand, AVG(br.rating) AS avg_rating, COUNT(br.id) AS rating_count").
		Joins("LEFT JOIN board_ratings br ON b.id = br.board_id").
		Where("b.location_id = ?", locationID).
		Group("b.id, b.name, b.brand").
		Having("COUNT(br.id) > 0").
		Order("avg_rating DESC, rating_count DESC").
		Scan(&out).Error
	return out, err
}

// Usage assembles the full report for the admin endpoint.
func (s *Service) Usage(ctx context.Context, locationID string, start, end time.Time) (*UsageReport, error) {
	r := &UsageReport{LocationID: locationID, Start: start, End: end}

	err := s.store.DB().WithContext(ctx).
		Table("checkouts c").
		Joins("JOIN boards b ON c.board_id = b.id").
		Where("b.location_id = ? AND c.checkout_time >= ? AND c.checkout_time <= ?", locationID, start, end).
		Count(&r.TotalCheckouts).Error
	if err != nil {
		return nil, err
	}

	if r.FavoriteBoards, err = s.FavoriteBoards(ctx, locationID, 10); err != nil {
		return nil, err
	}
	if r.UsagePerUser, err = s.UsagePerUser(ctx, locationID, start, end); err != nil {
		return nil, err
	}
	if r.DailyTrend, err = s.DailyTrend(ctx, locationID, start, end); err != nil {
		return nil, err
	}
	if r.DamageByBoard, err = s.DamageByBoard(ctx, locationID); err != nil {
		return nil, err
	}
	if r.RatingsByBoard, err = s.RatingsByBoard(ctx, locationID); err != nil {
		return nil, err
	}
	return r, nil
}
