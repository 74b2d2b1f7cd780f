package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"surfboard-checkout-backend/internal/report"
	"surfboard-checkout-backend/internal/service"
	"surfboard-checkout-backend/internal/session"
	"surfboard-checkout-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store        *store.Store
	inventory    *service.InventoryService
	checkouts    *service.CheckoutService
	reservations *service.ReservationService
	reports      *report.Service
	sessions     *session.Store
	webpush      *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(
	st *store.Store,
	inventory *service.InventoryService,
	checkouts *service.CheckoutService,
	reservations *service.ReservationService,
	reports *report.Service,
	sessions *session.Store,
	webpushOptions *webpush.Options,
) *Handler {
	return &Handler{
		store:        st,
		inventory:    inventory,
		checkouts:    checkouts,
		reservations: reservations,
		reports:      reports,
		sessions:     sessions,
		webpush:      webpushOptions,
	}
}

// respondError translates core sentinel errors into HTTP statuses. Unknown
// errors surface as 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBoardNotFound),
		errors.Is(err, service.ErrCheckoutNotFound),
		errors.Is(err, service.ErrReservationNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrLocationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCheckoutNotOwned),
		errors.Is(err, service.ErrReservationNotOwned):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrBoardAlreadyCheckedOut),
		errors.Is(err, service.ErrBoardNotAvailable),
		errors.Is(err, service.ErrCheckoutNotActive),
		errors.Is(err, service.ErrReservationExists),
		errors.Is(err, service.ErrReservationNotAvailable),
		errors.Is(err, service.ErrReservationCannotCancel),
		errors.Is(err, service.ErrReturnTimePassed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrBoardNotAtLocation),
		errors.Is(err, service.ErrCheckoutBoardMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
