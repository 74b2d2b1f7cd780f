package model

import "time"

// Board status values. Status is the single source of truth for availability.
// Boards are never hard-deleted; a retired board transitions to replaced.
const (
	BoardStatusAvailable  = "available"
	BoardStatusCheckedOut = "checked_out"
	BoardStatusDamaged    = "damaged"
	BoardStatusInRepair   = "in_repair"
	BoardStatusReplaced   = "replaced"
)

// Board condition values.
const (
	BoardConditionExcellent = "excellent"
	BoardConditionGood      = "good"
	BoardConditionFair      = "fair"
)

// Board represents one surfboard tracked by the inventory ledger.
type Board struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	LocationID string `gorm:"type:uuid;index;not null" json:"locationId"`
	Name       string `gorm:"size:255;not null" json:"name"`
	Brand      string `gorm:"size:100" json:"brand,omitempty"`
	Size       string `gorm:"size:50" json:"size,omitempty"`
	ImageURL   string `gorm:"size:500" json:"imageUrl,omitempty"`
	Status     string `gorm:"size:50;not null;default:'available';index" json:"status"`
	Condition  string `gorm:"size:50;default:'good'" json:"condition"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Associations
	Location Location `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (b *Board) IsAvailable() bool { return b.Status == BoardStatusAvailable }
