package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"surfboard-checkout-backend/internal/db"
	"surfboard-checkout-backend/internal/model"
	"surfboard-checkout-backend/internal/mw"
	"surfboard-checkout-backend/internal/report"
	"surfboard-checkout-backend/internal/service"
	"surfboard-checkout-backend/internal/store"
)

type apiFixture struct {
	engine   *gin.Engine
	st       *store.Store
	location model.Location
	u1, u2   model.User
	board    model.Board
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(gdb))

	st := store.New(gdb)
	ctx := context.Background()

	f := &apiFixture{st: st}
	f.location = model.Location{ID: uuid.NewString(), Name: "Trestles", Timezone: "America/Los_Angeles"}
	require.NoError(t, st.DB().WithContext(ctx).Create(&f.location).Error)
	f.u1 = model.User{ID: uuid.NewString(), LocationID: f.location.ID, Username: "grom", FullName: "Grom One", Email: "grom@example.com"}
	f.u2 = model.User{ID: uuid.NewString(), LocationID: f.location.ID, Username: "lurker", FullName: "Lurker Two", Email: "lurker@example.com"}
	require.NoError(t, st.DB().WithContext(ctx).Create(&f.u1).Error)
	require.NoError(t, st.DB().WithContext(ctx).Create(&f.u2).Error)
	f.board = model.Board{
		ID: uuid.NewString(), LocationID: f.location.ID, Name: "Daily Driver",
		Status: model.BoardStatusAvailable, Condition: model.BoardConditionGood,
	}
	require.NoError(t, st.DB().WithContext(ctx).Create(&f.board).Error)

	reservations := service.NewReservationService(st)
	checkouts := service.NewCheckoutService(st, reservations, nil, nil)
	inventory := service.NewInventoryService(st, nil)
	h := NewHandler(st, inventory, checkouts, reservations, report.NewService(st), nil, nil)

	// Routes under test, with identity injected per-request via header so
	// one engine serves both users.
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set(mw.CtxUserID, uid)
		}
		c.Next()
	})
	engine.GET("/api/boards/:id/availability", h.CheckAvailability)
	engine.GET("/api/locations/:id/boards/available", h.ListAvailableBoards)
	engine.POST("/api/boards/:id/checkout", h.CreateCheckout)
	engine.POST("/api/boards/:id/reservations", h.CreateReservation)
	engine.POST("/api/checkouts/:id/return", h.ReturnCheckout)
	engine.POST("/api/checkouts/:id/cancel", h.CancelCheckout)

	f.engine = engine
	return f
}

func (f *apiFixture) do(t *testing.T, userID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestCheckoutEndpointLifecycle(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, f.u1.ID, http.MethodPost,
		fmt.Sprintf("/api/boards/%s/checkout", f.board.ID),
		gin.H{"locationId": f.location.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Checkout model.Checkout `json:"checkout"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, model.CheckoutStatusActive, created.Checkout.Status)

	// A second user hits the conflict mapping.
	w = f.do(t, f.u2.ID, http.MethodPost,
		fmt.Sprintf("/api/boards/%s/checkout", f.board.ID),
		gin.H{"locationId": f.location.ID})
	require.Equal(t, http.StatusConflict, w.Code)

	// Returning someone else's checkout is forbidden.
	w = f.do(t, f.u2.ID, http.MethodPost,
		fmt.Sprintf("/api/checkouts/%s/return", created.Checkout.ID), nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, f.u1.ID, http.MethodPost,
		fmt.Sprintf("/api/checkouts/%s/return", created.Checkout.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Terminal states conflict on re-return.
	w = f.do(t, f.u1.ID, http.MethodPost,
		fmt.Sprintf("/api/checkouts/%s/return", created.Checkout.ID), nil)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestCheckoutEndpointNotFound(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, f.u1.ID, http.MethodPost,
		fmt.Sprintf("/api/boards/%s/checkout", uuid.NewString()),
		gin.H{"locationId": f.location.ID})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, f.u1.ID, http.MethodPost,
		fmt.Sprintf("/api/checkouts/%s/return", uuid.NewString()), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, "", http.MethodGet,
		fmt.Sprintf("/api/boards/%s/availability", f.board.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, true, resp["available"])

	// Check the board out, then query a window inside the loan.
	w = f.do(t, f.u1.ID, http.MethodPost,
		fmt.Sprintf("/api/boards/%s/checkout", f.board.ID),
		gin.H{"locationId": f.location.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	start := time.Now().UTC().Add(10 * time.Minute).Format(time.RFC3339)
	w = f.do(t, "", http.MethodGet,
		fmt.Sprintf("/api/boards/%s/availability?start=%s&hours=1", f.board.ID, start), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, false, resp["available"])
	require.Equal(t, "Reserved", resp["reason"])

	w = f.do(t, "", http.MethodGet,
		fmt.Sprintf("/api/boards/%s/availability?start=not-a-time", f.board.ID), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailableBoardsEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, "", http.MethodGet,
		fmt.Sprintf("/api/locations/%s/boards/available", f.location.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Boards []model.Board `json:"boards"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Boards, 1)

	w = f.do(t, f.u1.ID, http.MethodPost,
		fmt.Sprintf("/api/boards/%s/checkout", f.board.ID),
		gin.H{"locationId": f.location.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, "", http.MethodGet,
		fmt.Sprintf("/api/locations/%s/boards/available", f.location.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Empty(t, resp.Boards)
}
