package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"surfboard-checkout-backend/internal/model"
	"surfboard-checkout-backend/internal/mw"
	"surfboard-checkout-backend/internal/store"
)

type rateRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// RateBoard records or replaces the caller's rating for a board.
func (h *Handler) RateBoard(c *gin.Context) {
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	boardID := c.Param("id")
	if _, err := h.store.FindBoard(ctx, boardID); err != nil {
		if store.IsRecordNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	rating := model.BoardRating{
		ID:      uuid.NewString(),
		UserID:  mw.UserID(c),
		BoardID: boardID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := h.store.UpsertRating(ctx, &rating); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rating": rating})
}

// ListBoardRatings returns a board's ratings with the running average.
func (h *Handler) ListBoardRatings(c *gin.Context) {
	ctx := c.Request.Context()
	boardID := c.Param("id")

	ratings, err := h.store.ListRatingsByBoard(ctx, boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	avg, count, err := h.store.AverageRating(ctx, boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ratings": ratings,
		"average": avg,
		"count":   count,
		"asOf":    time.Now().UTC(),
	})
}
