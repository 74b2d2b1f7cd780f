package model

import "time"

// Damage report status values. The report lifecycle is driven by admin
// action; the engine only ever creates reports in status new.
const (
	DamageStatusNew      = "new"
	DamageStatusInRepair = "in_repair"
	DamageStatusReplaced = "replaced"
)

// Damage severity values.
const (
	DamageSeverityMinor    = "minor"
	DamageSeverityModerate = "moderate"
	DamageSeveritySevere   = "severe"
)

// DamageReport is raised when a return flags damage on a board.
type DamageReport struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	CheckoutID string `gorm:"type:uuid;index" json:"checkoutId"`
	BoardID    string `gorm:"type:uuid;index;not null" json:"boardId"`
	ReportedBy string `gorm:"type:uuid" json:"reportedBy"`

	Description string `gorm:"type:text" json:"description,omitempty"`
	Severity    string `gorm:"size:50;not null;default:'moderate'" json:"severity"`
	Status      string `gorm:"size:50;not null;default:'new';index" json:"status"`
	AdminNotes  string `gorm:"type:text" json:"adminNotes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
