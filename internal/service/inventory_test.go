package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"surfboard-checkout-backend/internal/model"
)

func TestFindAvailableFiltersByStatusAndLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := NewInventoryService(f.st, nil)

	boards, err := inv.FindAvailable(ctx, f.location.ID)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	require.Equal(t, f.board.ID, boards[0].ID)

	require.NoError(t, f.st.UpdateBoardStatus(ctx, f.board.ID, model.BoardStatusDamaged))
	boards, err = inv.FindAvailable(ctx, f.location.ID)
	require.NoError(t, err)
	require.Empty(t, boards)
}

func TestIsAvailableAtOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := chicagoTime(t, 2025, time.June, 3, 10, 0)
	cs, _ := f.services(start)
	inv := NewInventoryService(f.st, nil)

	checkout, err := cs.Checkout(ctx, f.u1.ID, f.board.ID, f.location.ID, "")
	require.NoError(t, err)

	tests := []struct {
		name     string
		at       time.Time
		duration time.Duration
		want     bool
	}{
		{"inside the active window", start.Add(time.Hour).UTC(), time.Hour, false},
		{"straddling the checkout start", start.Add(-30 * time.Minute).UTC(), time.Hour, false},
		{"ending exactly at checkout start", start.Add(-time.Hour).UTC(), time.Hour, true},
		{"starting exactly at expected return", checkout.ExpectedReturnTime, time.Hour, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, reason, err := inv.IsAvailableAt(ctx, f.board.ID, tc.at, tc.duration)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
			if !tc.want {
				require.Equal(t, "Reserved", reason)
			}
		})
	}
}

func TestIsAvailableAtReservationDateGranular(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := chicagoTime(t, 2025, time.June, 3, 10, 0)
	cs, rs := f.services(start)
	inv := NewInventoryService(f.st, nil)

	checkout, err := cs.Checkout(ctx, f.u1.ID, f.board.ID, f.location.ID, "")
	require.NoError(t, err)
	_, err = rs.Create(ctx, f.u2.ID, f.board.ID, checkout.ID, f.location.ID, "")
	require.NoError(t, err)

	// The reservation blocks the whole unlock date, not just the hour.
	unlockDay := checkout.ExpectedReturnTime
	free, reason, err := inv.IsAvailableAt(ctx, f.board.ID, unlockDay.Add(6*time.Hour), time.Hour)
	require.NoError(t, err)
	require.False(t, free)
	require.Equal(t, "Reserved", reason)

	free, _, err = inv.IsAvailableAt(ctx, f.board.ID, unlockDay.AddDate(0, 0, 2), time.Hour)
	require.NoError(t, err)
	require.True(t, free)
}

func TestUpdateStatusWritesAuditEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := NewInventoryService(f.st, nil)

	require.NoError(t, inv.UpdateStatus(ctx, f.u1.ID, f.board.ID, model.BoardStatusInRepair))
	require.Equal(t, model.BoardStatusInRepair, f.reloadBoard(t).Status)

	entries, err := f.st.ListActivityByBoard(ctx, f.board.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, model.ActionBoardStatusChange, entries[0].ActionType)
}
