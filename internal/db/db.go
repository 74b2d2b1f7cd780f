package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"surfboard-checkout-backend/config"
	"surfboard-checkout-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// Migrate runs AutoMigrate for all models plus the raw DDL that gorm tags
// cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Location{},
		&model.User{},
		&model.Board{},
		&model.Checkout{},
		&model.Reservation{},
		&model.DamageReport{},
		&model.ActivityLog{},
		&model.BoardRating{},
		&model.PushSubscription{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}

	// At most one active checkout per board, enforced by the database even if
	// two workers race past the application-level check.
	if err := db.Exec(`
	  CREATE UNIQUE INDEX IF NOT EXISTS checkouts_one_active_per_board
	  ON checkouts (board_id)
	  WHERE status = 'active';
	`).Error; err != nil {
		return fmt.Errorf("failed to create partial unique index: %w", err)
	}

	// Pending-reservation queue scans are always (board_id, unlock_time).
	if err := db.Exec(`
	  CREATE INDEX IF NOT EXISTS reservations_board_unlock
	  ON reservations (board_id, unlock_time)
	  WHERE status = 'pending';
	`).Error; err != nil {
		return fmt.Errorf("failed to create reservation queue index: %w", err)
	}

	return nil
}
