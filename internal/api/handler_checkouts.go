package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"surfboard-checkout-backend/internal/mw"
	"surfboard-checkout-backend/internal/service"
)

type checkoutRequest struct {
	LocationID string `json:"locationId" binding:"required"`
}

// CreateCheckout checks the board out to the caller.
func (h *Handler) CreateCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checkout, err := h.checkouts.Checkout(
		c.Request.Context(), mw.UserID(c), c.Param("id"), req.LocationID, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"checkout": checkout})
}

type returnRequest struct {
	Damage *struct {
		Description string `json:"description" binding:"required"`
		Severity    string `json:"severity"`
	} `json:"damage"`
}

// ReturnCheckout closes the caller's active checkout, optionally raising a
// damage report.
func (h *Handler) ReturnCheckout(c *gin.Context) {
	var req returnRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var damage *service.DamageInput
	if req.Damage != nil {
		damage = &service.DamageInput{
			Description: req.Damage.Description,
			Severity:    req.Damage.Severity,
		}
	}

	checkout, err := h.checkouts.Return(
		c.Request.Context(), c.Param("id"), mw.UserID(c), damage, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkout": checkout})
}

// CancelCheckout voids the caller's active checkout without a return.
func (h *Handler) CancelCheckout(c *gin.Context) {
	checkout, err := h.checkouts.Cancel(c.Request.Context(), c.Param("id"), mw.UserID(c), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkout": checkout})
}

// ListCheckouts returns the caller's checkouts, or a board's history when
// board= is given.
func (h *Handler) ListCheckouts(c *gin.Context) {
	ctx := c.Request.Context()
	if boardID := c.Query("board"); boardID != "" {
		checkouts, err := h.store.ListCheckoutsByBoard(ctx, boardID, 50)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"checkouts": checkouts})
		return
	}

	activeOnly := c.Query("active") == "true"
	checkouts, err := h.store.ListCheckoutsByUser(ctx, mw.UserID(c), activeOnly, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkouts": checkouts})
}
