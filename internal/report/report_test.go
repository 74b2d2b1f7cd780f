package report

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

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(gdb))
	st := store.New(gdb)
	return NewService(st), st
}

func TestUsageReport(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	loc := model.Location{ID: uuid.NewString(), Name: "Bells Beach", Timezone: "Australia/Melbourne"}
	require.NoError(t, st.DB().Create(&loc).Error)

	user := model.User{ID: uuid.NewString(), LocationID: loc.ID, Username: "mick", FullName: "Mick Fanning", Email: "mick@example.com"}
	require.NoError(t, st.DB().Create(&user).Error)

	popular := model.Board{ID: uuid.NewString(), LocationID: loc.ID, Name: "Step Up", Brand: "JS", Status: model.BoardStatusAvailable}
	idle := model.Board{ID: uuid.NewString(), LocationID: loc.ID, Name: "Log", Brand: "Takayama", Status: model.BoardStatusAvailable}
	require.NoError(t, st.DB().Create(&popular).Error)
	require.NoError(t, st.DB().Create(&idle).Error)

	base := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		ret := base.Add(time.Duration(i)*24*time.Hour + 2*time.Hour)
		require.NoError(t, st.DB().Create(&model.Checkout{
			ID: uuid.NewString(), UserID: user.ID, BoardID: popular.ID,
			CheckoutTime:       base.Add(time.Duration(i) * 24 * time.Hour),
			ExpectedReturnTime: base.Add(time.Duration(i+1) * 24 * time.Hour),
			ActualReturnTime:   &ret,
			Status:             model.CheckoutStatusReturned,
		}).Error)
	}
	require.NoError(t, st.DB().Create(&model.DamageReport{
		ID: uuid.NewString(), BoardID: popular.ID, ReportedBy: user.ID,
		Description: "pressure ding", Severity: model.DamageSeverityMinor,
		Status: model.DamageStatusNew,
	}).Error)
	require.NoError(t, st.DB().Create(&model.BoardRating{
		ID: uuid.NewString(), UserID: user.ID, BoardID: popular.ID, Rating: 4,
	}).Error)

	report, err := svc.Usage(ctx, loc.ID, base.AddDate(0, 0, -1), base.AddDate(0, 0, 7))
	require.NoError(t, err)

	require.EqualValues(t, 3, report.TotalCheckouts)

	require.Len(t, report.FavoriteBoards, 2)
	require.Equal(t, popular.ID, report.FavoriteBoards[0].BoardID)
	require.EqualValues(t, 3, report.FavoriteBoards[0].CheckoutCount)
	require.EqualValues(t, 0, report.FavoriteBoards[1].CheckoutCount)

	require.Len(t, report.UsagePerUser, 1)
	require.EqualValues(t, 3, report.UsagePerUser[0].CheckoutCount)

	require.Len(t, report.DailyTrend, 3)
	for _, day := range report.DailyTrend {
		require.EqualValues(t, 1, day.CheckoutCount)
	}

	require.Len(t, report.DamageByBoard, 1)
	require.Equal(t, popular.ID, report.DamageByBoard[0].BoardID)

	require.Len(t, report.RatingsByBoard, 1)
	require.InDelta(t, 4.0, report.RatingsByBoard[0].AvgRating, 0.001)
}

func TestUsageReportEmptyLocation(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	loc := model.Location{ID: uuid.NewString(), Name: "Empty Reef", Timezone: "UTC"}
	require.NoError(t, st.DB().Create(&loc).Error)

	report, err := svc.Usage(ctx, loc.ID, time.Now().AddDate(0, 0, -30), time.Now())
	require.NoError(t, err)
	require.EqualValues(t, 0, report.TotalCheckouts)
	require.Empty(t, report.UsagePerUser)
	require.Empty(t, report.DamageByBoard)
}
