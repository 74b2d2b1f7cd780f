package model

import "time"

// Reservation status values. Transitions are pending -> available ->
// fulfilled, or pending -> cancelled. Fulfilled and cancelled are terminal.
const (
	ReservationStatusPending   = "pending"
	ReservationStatusAvailable = "available"
	ReservationStatusFulfilled = "fulfilled"
	ReservationStatusCancelled = "cancelled"
)

// Reservation is a queued claim on a board tied to a prior checkout's
// expected return time. UnlockTime equals that checkout's expected return
// time and is stored as UTC.
type Reservation struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string `gorm:"type:uuid;index;not null" json:"userId"`
	BoardID    string `gorm:"type:uuid;index;not null" json:"boardId"`
	CheckoutID string `gorm:"type:uuid;index" json:"checkoutId"`

	ReservationTime  time.Time `gorm:"not null" json:"reservationTime"`
	UnlockTime       time.Time `gorm:"index;not null" json:"unlockTime"`
	Status           string    `gorm:"size:50;not null;default:'pending';index" json:"status"`
	NotificationSent bool      `gorm:"not null;default:false" json:"notificationSent"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Reservation) IsPending() bool { return r.Status == ReservationStatusPending }
