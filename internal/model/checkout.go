package model

import "time"

// Checkout status values. Returned and cancelled are terminal.
const (
	CheckoutStatusActive    = "active"
	CheckoutStatusReturned  = "returned"
	CheckoutStatusCancelled = "cancelled"
)

// Checkout links one user to one board for one time window. For a given
// board at most one active checkout may exist at a time; the partial unique
// index created in db.Migrate backs that invariant at the storage layer.
type Checkout struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  string `gorm:"type:uuid;index;not null" json:"userId"`
	BoardID string `gorm:"type:uuid;index;not null" json:"boardId"`

	CheckoutTime       time.Time  `gorm:"index;not null" json:"checkoutTime"`
	ExpectedReturnTime time.Time  `gorm:"not null" json:"expectedReturnTime"`
	ActualReturnTime   *time.Time `json:"actualReturnTime,omitempty"`
	Status             string     `gorm:"size:50;not null;default:'active';index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Checkout) IsActive() bool { return c.Status == CheckoutStatusActive }

// Window returns the half-open occupancy interval [start, end) for this
// checkout. A checkout without an expected return time defaults to one hour
// past its checkout time.
func (c *Checkout) Window() (time.Time, time.Time) {
	end := c.ExpectedReturnTime
	if end.IsZero() {
		end = c.CheckoutTime.Add(time.Hour)
	}
	return c.CheckoutTime, end
}
