package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"surfboard-checkout-backend/internal/mw"
)

// ListLocations returns every surf location.
func (h *Handler) ListLocations(c *gin.Context) {
	locations, err := h.store.ListLocations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// ListBoards returns every board at a location regardless of status.
func (h *Handler) ListBoards(c *gin.Context) {
	boards, err := h.store.FindBoardsByLocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"boards": boards})
}

// ListAvailableBoards returns only boards currently free to check out.
func (h *Handler) ListAvailableBoards(c *gin.Context) {
	boards, err := h.inventory.FindAvailable(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"boards": boards})
}

// CheckAvailability answers whether a board is free over a requested
// window, defaulting to one hour from now.
func (h *Handler) CheckAvailability(c *gin.Context) {
	start := time.Now().UTC()
	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be RFC3339"})
			return
		}
		start = parsed
	}
	hours := 1
	if raw := c.Query("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hours must be a positive integer"})
			return
		}
		hours = parsed
	}

	available, reason, err := h.inventory.IsAvailableAt(
		c.Request.Context(), c.Param("id"), start, time.Duration(hours)*time.Hour)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"available": available}
	if reason != "" {
		resp["reason"] = reason
	}
	c.JSON(http.StatusOK, resp)
}

type updateBoardStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateBoardStatus is the admin override for a board's status.
func (h *Handler) UpdateBoardStatus(c *gin.Context) {
	var req updateBoardStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.inventory.UpdateStatus(c.Request.Context(), mw.UserID(c), c.Param("id"), req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
