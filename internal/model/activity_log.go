package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Activity log action types.
const (
	ActionCheckout           = "checkout"
	ActionReturn             = "return"
	ActionReservation        = "reservation"
	ActionDamageReport       = "damage_report"
	ActionCancelCheckout     = "cancel_checkout"
	ActionCancelReservation  = "cancel_reservation"
	ActionBoardStatusChange  = "board_status_change"
	ActionDamageStatusChange = "damage_status_change"
)

// ActivityLog is an append-only audit record of a lifecycle transition.
// The core only ever writes these; it never reads them back.
type ActivityLog struct {
	ID         string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string         `gorm:"type:uuid;index" json:"userId,omitempty"`
	BoardID    string         `gorm:"type:uuid;index" json:"boardId,omitempty"`
	LocationID string         `gorm:"type:uuid;index" json:"locationId,omitempty"`
	ActionType string         `gorm:"size:50;not null" json:"actionType"`
	Details    datatypes.JSON `json:"details,omitempty"`
	Timestamp  time.Time      `gorm:"index;not null" json:"timestamp"`
	IPAddress  string         `gorm:"size:45" json:"ipAddress,omitempty"`
}

func (ActivityLog) TableName() string { return "activity_log" }

// Detail payloads are closed, per-action structs rather than free-form maps
// so the audit trail stays type-checkable.

type CheckoutCreatedDetails struct {
	CheckoutID         string    `json:"checkout_id"`
	ExpectedReturnTime time.Time `json:"expected_return_time"`
	IsWeekend          bool      `json:"is_weekend"`
}

type ReturnDetails struct {
	CheckoutID string    `json:"checkout_id"`
	ReturnTime time.Time `json:"return_time"`
	HasDamage  bool      `json:"has_damage"`
}

type DamageReportedDetails struct {
	CheckoutID     string `json:"checkout_id"`
	DamageReportID string `json:"damage_report_id"`
	Severity       string `json:"severity"`
}

type ReservationDetails struct {
	ReservationID string     `json:"reservation_id"`
	CheckoutID    string     `json:"checkout_id,omitempty"`
	UnlockTime    *time.Time `json:"unlock_time,omitempty"`
	Action        string     `json:"action,omitempty"`
}

type CancelCheckoutDetails struct {
	CheckoutID string `json:"checkout_id"`
}

type BoardStatusChangeDetails struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

type DamageStatusChangeDetails struct {
	DamageReportID string `json:"damage_report_id"`
	OldStatus      string `json:"old_status"`
	NewStatus      string `json:"new_status"`
}

// DetailsJSON marshals a detail payload for storage. Marshalling of the
// closed structs above cannot fail, so errors degrade to an empty payload.
func DetailsJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
