package service

import "context"

// Notifier receives lifecycle events that should reach people. Delivery is
// the implementation's problem; the services fire and forget, and a failed
// or absent notifier never fails the triggering operation.
type Notifier interface {
	// ReservationAvailable announces that the reservation's board has freed
	// up and the holder may claim it.
	ReservationAvailable(ctx context.Context, reservationID string)
	// DamageReported announces a new damage report to the admins of the
	// board's location.
	DamageReported(ctx context.Context, damageReportID string)
}

// Broadcaster pushes realtime events to a location-keyed broadcast group.
// Implementations must be best-effort: a slow or gone subscriber is dropped,
// never waited on.
type Broadcaster interface {
	BoardStatusChanged(locationID, boardID, status string)
	CheckoutCreated(locationID, checkoutID, boardID, userID string)
	CheckoutReturned(locationID, checkoutID, boardID string)
}

// NopNotifier and NopBroadcaster satisfy the sink interfaces for tests and
// for wiring paths where a collaborator is not configured.

type NopNotifier struct{}

func (NopNotifier) ReservationAvailable(context.Context, string) {}
func (NopNotifier) DamageReported(context.Context, string)       {}

type NopBroadcaster struct{}

func (NopBroadcaster) BoardStatusChanged(string, string, string)        {}
func (NopBroadcaster) CheckoutCreated(string, string, string, string)   {}
func (NopBroadcaster) CheckoutReturned(string, string, string)          {}
