package model

import "time"

// Location represents a physical site with its own timezone and board inventory.
type Location struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Timezone  string    `gorm:"size:100;not null;default:'America/Los_Angeles'" json:"timezone"`
	Address   string    `gorm:"type:text" json:"address,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	Boards []Board `gorm:"foreignKey:LocationID" json:"-"`
}
