package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"surfboard-checkout-backend/internal/model"
	"surfboard-checkout-backend/internal/store"
)

// InventoryService is the inventory ledger: it answers availability queries
// and performs administrative status writes. Lifecycle transitions go
// through CheckoutService, which owns the board status state machine.
type InventoryService struct {
	store  *store.Store
	events Broadcaster
}

func NewInventoryService(st *store.Store, events Broadcaster) *InventoryService {
	if events == nil {
		events = NopBroadcaster{}
	}
	return &InventoryService{store: st, events: events}
}

// FindAvailable returns boards at the location whose status is available.
func (s *InventoryService) FindAvailable(ctx context.Context, locationID string) ([]model.Board, error) {
	return s.store.FindAvailableBoards(ctx, locationID)
}

// IsAvailableAt reports whether the board is free across the half-open
// window [start, start+duration). Active checkouts are compared by precise
// interval overlap; open reservations are compared by calendar date only,
// which keeps reservations day-granular. The string is a human reason when
// the board is not free.
func (s *InventoryService) IsAvailableAt(ctx context.Context, boardID string, start time.Time, duration time.Duration) (bool, string, error) {
	if duration <= 0 {
		duration = time.Hour
	}
	qStart := start.UTC()
	qEnd := qStart.Add(duration)

	checkouts, err := s.store.ListActiveCheckoutsByBoard(ctx, boardID)
	if err != nil {
		return false, "", err
	}
	for _, c := range checkouts {
		cStart, cEnd := c.Window()
		// Two half-open intervals [a,b) and [c,d) overlap iff a < d && b > c.
		if qStart.Before(cEnd) && qEnd.After(cStart) {
			return false, "Reserved", nil
		}
	}

	reservations, err := s.store.OpenReservationsByBoard(ctx, boardID)
	if err != nil {
		return false, "", err
	}
	qDate := qStart.Format("2006-01-02")
	for _, r := range reservations {
		if r.UnlockTime.UTC().Format("2006-01-02") == qDate {
			return false, "Reserved", nil
		}
	}

	return true, "", nil
}

// UpdateStatus is the administrative status write: unconditional, audited,
// broadcast. Invariant preservation is the caller's responsibility.
func (s *InventoryService) UpdateStatus(ctx context.Context, actorID, boardID, newStatus string) error {
	var locationID string
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		board, err := tx.FindBoard(ctx, boardID)
		if err != nil {
			if store.IsRecordNotFound(err) {
				return ErrBoardNotFound
			}
			return err
		}
		locationID = board.LocationID

		if err := tx.UpdateBoardStatus(ctx, boardID, newStatus); err != nil {
			return err
		}
		return tx.AppendActivity(ctx, &model.ActivityLog{
			ID:         uuid.NewString(),
			UserID:     actorID,
			BoardID:    boardID,
			LocationID: board.LocationID,
			ActionType: model.ActionBoardStatusChange,
			Details: model.DetailsJSON(model.BoardStatusChangeDetails{
				OldStatus: board.Status,
				NewStatus: newStatus,
			}),
			Timestamp: time.Now().UTC(),
		})
	})
	if err != nil {
		return err
	}

	s.events.BoardStatusChanged(locationID, boardID, newStatus)
	log.Printf("board %s status set to %s", boardID, newStatus)
	return nil
}
