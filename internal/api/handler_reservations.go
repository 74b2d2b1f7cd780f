package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"surfboard-checkout-backend/internal/mw"
)

type reserveRequest struct {
	CheckoutID string `json:"checkoutId" binding:"required"`
	LocationID string `json:"locationId" binding:"required"`
}

// CreateReservation queues the caller behind an active checkout of the
// board.
func (h *Handler) CreateReservation(c *gin.Context) {
	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, err := h.reservations.Create(
		c.Request.Context(), mw.UserID(c), c.Param("id"), req.CheckoutID, req.LocationID, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reservation": reservation})
}

// ListBoardReservations returns the board's waiting list in serving order.
func (h *Handler) ListBoardReservations(c *gin.Context) {
	queue, err := h.reservations.QueueFor(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": queue})
}

// ListMyReservations returns the caller's reservations.
func (h *Handler) ListMyReservations(c *gin.Context) {
	reservations, err := h.reservations.ListForUser(c.Request.Context(), mw.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservations})
}

// FulfillReservation claims an available reservation for pickup.
func (h *Handler) FulfillReservation(c *gin.Context) {
	reservation, err := h.reservations.Fulfill(c.Request.Context(), c.Param("id"), mw.UserID(c), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation": reservation})
}

// CancelReservation withdraws a pending reservation.
func (h *Handler) CancelReservation(c *gin.Context) {
	reservation, err := h.reservations.Cancel(c.Request.Context(), c.Param("id"), mw.UserID(c), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation": reservation})
}
