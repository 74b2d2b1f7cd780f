// Package store is the persistence collaborator: per-entity CRUD plus the
// filtered queries the services need. Multi-step writes run inside a single
// transaction via Transaction so each lifecycle operation is all-or-nothing.
package store

import (
	"context"

	"gorm.io/gorm"

	"surfboard-checkout-backend/internal/model"
)

// Store wraps a *gorm.DB with the query surface of the application.
type Store struct {
	db *gorm.DB
}

// New creates a Store backed by the given database handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for the few callers (reporting, raw
// handler queries) that compose their own SQL.
func (s *Store) DB() *gorm.DB { return s.db }

// Transaction runs fn against a transaction-bound Store. Returning an error
// rolls every write back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(txdb *gorm.DB) error {
		return fn(&Store{db: txdb})
	})
}

// Locations

func (s *Store) ListLocations(ctx context.Context) ([]model.Location, error) {
	var locs []model.Location
	err := s.db.WithContext(ctx).Order("name").Find(&locs).Error
	return locs, err
}

func (s *Store) FindLocation(ctx context.Context, id string) (*model.Location, error) {
	var loc model.Location
	if err := s.db.WithContext(ctx).First(&loc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

// Users

func (s *Store) FindUser(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) FindAdminsByLocation(ctx context.Context, locationID string) ([]model.User, error) {
	var admins []model.User
	err := s.db.WithContext(ctx).
		Where("location_id = ? AND role = ?", locationID, model.RoleAdmin).
		Find(&admins).Error
	return admins, err
}

func (s *Store) TouchUserLogin(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_login_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

// Boards

func (s *Store) CreateBoard(ctx context.Context, b *model.Board) error {
	return s.db.WithContext(ctx).Create(b).Error
}

func (s *Store) FindBoard(ctx context.Context, id string) (*model.Board, error) {
	var b model.Board
	if err := s.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) FindBoardsByLocation(ctx context.Context, locationID string) ([]model.Board, error) {
	var boards []model.Board
	err := s.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("name").
		Find(&boards).Error
	return boards, err
}

// FindAvailableBoards returns boards at a location whose status is
// available, in display order.
func (s *Store) FindAvailableBoards(ctx context.Context, locationID string) ([]model.Board, error) {
	var boards []model.Board
	err := s.db.WithContext(ctx).
		Where("location_id = ? AND status = ?", locationID, model.BoardStatusAvailable).
		Order("name").
		Find(&boards).Error
	return boards, err
}

// UpdateBoardStatus writes a board status unconditionally. Callers are
// responsible for invariant preservation; lifecycle transitions should use
// UpdateBoardStatusIf instead.
func (s *Store) UpdateBoardStatus(ctx context.Context, boardID, status string) error {
	return s.db.WithContext(ctx).Model(&model.Board{}).
		Where("id = ?", boardID).
		Update("status", status).Error
}

// UpdateBoardStatusIf performs a conditional status write, the compare-and-
// swap that arbitrates races between concurrent lifecycle operations. It
// reports whether the row was actually updated.
func (s *Store) UpdateBoardStatusIf(ctx context.Context, boardID, from, to string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&model.Board{}).
		Where("id = ? AND status = ?", boardID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Activity log

func (s *Store) AppendActivity(ctx context.Context, entry *model.ActivityLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *Store) ListActivityByLocation(ctx context.Context, locationID string, limit int) ([]model.ActivityLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var entries []model.ActivityLog
	err := s.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (s *Store) ListActivityByBoard(ctx context.Context, boardID string, limit int) ([]model.ActivityLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var entries []model.ActivityLog
	err := s.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
