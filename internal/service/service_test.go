package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"surfboard-checkout-backend/internal/db"
	"surfboard-checkout-backend/internal/model"
	"surfboard-checkout-backend/internal/store"
)

// newTestStore opens an in-memory SQLite database with the full schema.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))
	return store.New(gdb)
}

type fixture struct {
	st       *store.Store
	location model.Location
	u1, u2   model.User
	board    model.Board
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := newTestStore(t)
	ctx := context.Background()

	f := &fixture{st: st}
	f.location = model.Location{ID: uuid.NewString(), Name: "Chicago Lakefront", Timezone: "America/Chicago"}
	require.NoError(t, st.DB().WithContext(ctx).Create(&f.location).Error)

	f.u1 = model.User{ID: uuid.NewString(), LocationID: f.location.ID, Username: "kai", FullName: "Kai Moana", Email: "kai@example.com"}
	f.u2 = model.User{ID: uuid.NewString(), LocationID: f.location.ID, Username: "nalu", FullName: "Nalu Kahale", Email: "nalu@example.com"}
	require.NoError(t, st.DB().WithContext(ctx).Create(&f.u1).Error)
	require.NoError(t, st.DB().WithContext(ctx).Create(&f.u2).Error)

	f.board = model.Board{
		ID: uuid.NewString(), LocationID: f.location.ID,
		Name: "Blue Pintail", Brand: "Channel", Size: "6'2",
		Status: model.BoardStatusAvailable, Condition: model.BoardConditionGood,
	}
	require.NoError(t, st.DB().WithContext(ctx).Create(&f.board).Error)
	return f
}

func (f *fixture) services(now time.Time) (*CheckoutService, *ReservationService) {
	rs := NewReservationService(f.st)
	cs := NewCheckoutService(f.st, rs, nil, nil)
	clock := func() time.Time { return now.UTC() }
	cs.now = clock
	rs.now = clock
	return cs, rs
}

func (f *fixture) reloadBoard(t *testing.T) model.Board {
	t.Helper()
	var b model.Board
	require.NoError(t, f.st.DB().First(&b, "id = ?", f.board.ID).Error)
	return b
}

func chicagoTime(t *testing.T, year int, month time.Month, day, hour, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	return time.Date(year, month, day, hour, min, 0, 0, loc)
}

func TestCheckoutWeekdayWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Tuesday 10:00 local: due back Wednesday 10:00 local.
	tuesday := chicagoTime(t, 2025, time.June, 3, 10, 0)
	cs, _ := f.services(tuesday)

	checkout, err := cs.Checkout(ctx, f.u1.ID, f.board.ID, f.location.ID, "")
	require.NoError(t, err)
	require.Equal(t, model.CheckoutStatusActive, checkout.Status)
	require.True(t, checkout.ExpectedReturnTime.After(checkout.CheckoutTime))

	wantReturn := chicagoTime(t, 2025, time.June, 4, 10, 0)
	require.True(t, checkout.ExpectedReturnTime.Equal(wantReturn),
		"got %v, want %v", checkout.ExpectedReturnTime, wantReturn)

	require.Equal(t, model.BoardStatusCheckedOut, f.reloadBoard(t).Status)
}

func TestCheckoutWeekendWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Saturday 14:00 local: due back the following Monday 14:00 local.
	saturday := chicagoTime(t, 2025, time.June, 7, 14, 0)
	cs, _ := f.services(saturday)

	checkout, err := cs.Checkout(ctx, f.u1.ID, f.board.ID, f.location.ID, "")
	require.NoError(t, err)

	wantReturn := chicagoTime(t, 2025, time.June, 9, 14, 0)
	require.True(t, checkout.ExpectedReturnTime.Equal(wantReturn),
		"got %v, want %v", checkout.ExpectedReturnTime, wantReturn)
}

func TestCheckoutMutualExclusion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cs, _ := f.services(chicagoTime(t, 2025, time.June, 3, 10, 0))

	_, err := cs.Checkout(ctx, f.u1.ID, f.board.ID, f.location.ID, "")
	require.NoError(t, err)

	_, err = cs.Checkout(ctx, f.u2.ID, f.board.ID, f.location.ID, "")
	require.ErrorIs(t, err, ErrBoardAlreadyCheckedOut)

	// Exactly one active checkout for the board.
	var n int64
	require.NoError(t, f.st.DB().Model(&model.Checkout{}).
		Where("board_id = ? AND status = ?", f.board.ID, model.CheckoutStatusActive).
		Count(&n).Error)
	require.EqualValues(t, 1, n)
}

func TestCheckoutPreconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cs, _ := f.services(chicagoTime(t, 2025, time.June, 3, 10, 0))

	_, err := cs.Checkout(ctx, f.u1.ID, uuid.NewString(), f.location.ID, "")
	require.ErrorIs(t, err, ErrBoardNotFound)

	_, err = cs.Checkout(ctx, f.u1.ID, f.board.ID, uuid.NewString(), "")
	require.ErrorIs(t, err, ErrBoardNotAtLocation)

	require.NoError(t, f.st.UpdateBoardStatus(ctx, f.board.ID, model.BoardStatusInRepair))
	_, err = cs.Checkout(ctx, f.u1.ID, f.board.ID, f.location.ID, "")
	require.ErrorIs(t, err, ErrBoardNotAvailable)
}

func TestReturnRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := chicagoTime(t, 2025, time.June, 3, 10, 0)
	cs, _ := f.services(start)

	checkout, err := cs.Checkout(ctx, f.u1.ID, f.board.ID, f.location.ID, "")
	require.NoError(t, err)

	cs.now = func() time.Time { return start.Add(2 * time.Hour).UTC() }
	returned, err := cs.Return(ctx, checkout.ID, f.u1.ID, nil, "")
	require.NoError(t, err)
	require.Equal(t, model.CheckoutStatusReturned, returned.Status)
	require.NotNil(t, returned.ActualReturnTime)
	require.False(t, returned.ActualReturnTime.Before(checkout.CheckoutTime))

	require.Equal(t, model.BoardStatusAvailable, f.reloadBoard(t).Status)
}

func TestReturnOwnershipAndTerminalStates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cs, _ := f.services(chicagoTime(t, 2025, time.June, 3, 10, 0))

	checkout, err := cs.Checkout(ctx, f.u1.ID, f.board.ID, f.location.ID, "")
	require.NoError(t, err)

	_, err = cs.Return(ctx, uuid.NewString(), f.u1.ID, nil, "")
	require.ErrorIs(t, err, ErrCheckoutNotFound)

	_, err = cs.Return(ctx, checkout.ID, f.u2.ID, nil, "")
	require.ErrorIs(t, err, ErrCheckoutNotOwned)

	_, err = cs.Return(ctx, checkout.ID, f.u1.ID, nil, "")
	require.NoError(t, err)

	// Returned is terminal: neither return nor cancel may fire again.
	_, err = cs.Return(ctx, checkout.ID, f.u1.ID, nil, "")
	require.ErrorIs(t, err, ErrCheckoutNotActive)
	_, err = cs.Cancel(ctx, checkout.ID, f.u1.ID, "")
	require.ErrorIs(t, err, ErrCheckoutNotActive)
}

func TestReturnWithDamage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cs, _ := f.services(chicagoTime(t, 2025, time.June, 3, 10, 0))

	checkout, err := cs.Checkout(ctx, f.u1.ID, f.board.ID, f.location.ID, "")
	require.NoError(t, err)

	_, err = cs.Return(ctx, checkout.ID, f.u1.ID, &DamageInput{Description: "ding on the rail"}, "")
	require.NoError(t, err)

	require.Equal(t, model.BoardStatusDamaged, f.reloadBoard(t).Status)

	var report model.DamageReport
	require.NoError(t, f.st.DB().First(&report, "board_id = ?", f.board.ID).Error)
	require.Equal(t, model.DamageStatusNew, report.Status)
	require.Equal(t, model.DamageSeverityModerate, report.Severity, "severity defaults to moderate")
	require.Equal(t, checkout.ID, report.CheckoutID)
	require.Equal(t, f.u1.ID, report.ReportedBy)
}

func TestCancelFreesBoardWithoutPromotion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := chicagoTime(t, 2025, time.June, 3, 10, 0)
	cs, rs := f.services(start)

	checkout, err := cs.Checkout(ctx, f.u1.ID, f.board.ID, f.location.ID, "")
	require.NoError(t, err)

	_, err = rs.Create(ctx, f.u2.ID, f.board.ID, checkout.ID, f.location.ID, "")
	require.NoError(t, err)

	// Move past the unlock time, then cancel instead of returning.
	cs.now = func() time.Time { return checkout.ExpectedReturnTime.Add(time.Hour) }
	cancelled, err := cs.Cancel(ctx, checkout.ID, f.u1.ID, "")
	require.NoError(t, err)
	require.Equal(t, model.CheckoutStatusCancelled, cancelled.Status)
	require.Equal(t, model.BoardStatusAvailable, f.reloadBoard(t).Status)

	// Cancellation does not wake waiters; the queue is untouched.
	queue, err := rs.QueueFor(ctx, f.board.ID)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	require.Equal(t, model.ReservationStatusPending, queue[0].Status)
}

func TestActivityTrail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cs, _ := f.services(chicagoTime(t, 2025, time.June, 3, 10, 0))

	checkout, err := cs.Checkout(ctx, f.u1.ID, f.board.ID, f.location.ID, "203.0.113.9")
	require.NoError(t, err)
	_, err = cs.Return(ctx, checkout.ID, f.u1.ID, nil, "203.0.113.9")
	require.NoError(t, err)

	entries, err := f.st.ListActivityByBoard(ctx, f.board.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	actions := []string{entries[0].ActionType, entries[1].ActionType}
	require.Contains(t, actions, model.ActionCheckout)
	require.Contains(t, actions, model.ActionReturn)
}
