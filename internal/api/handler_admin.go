package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"surfboard-checkout-backend/internal/model"
	"surfboard-checkout-backend/internal/mw"
	"surfboard-checkout-backend/internal/store"
)

// ListDamageReports returns the damage queue for a location.
func (h *Handler) ListDamageReports(c *gin.Context) {
	locationID := c.Query("location")
	if locationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location is required"})
		return
	}
	reports, err := h.store.ListDamageReportsByLocation(c.Request.Context(), locationID, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"damageReports": reports})
}

type damageStatusRequest struct {
	Status     string `json:"status" binding:"required,oneof=new in_repair replaced"`
	AdminNotes string `json:"adminNotes"`
}

// UpdateDamageReportStatus advances a damage report through the repair
// lifecycle and keeps the board status in step: in_repair moves the board
// to in_repair, replaced retires it.
func (h *Handler) UpdateDamageReportStatus(c *gin.Context) {
	var req damageStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	reportID := c.Param("id")

	err := h.store.Transaction(ctx, func(tx *store.Store) error {
		report, err := tx.FindDamageReport(ctx, reportID)
		if err != nil {
			return err
		}
		oldStatus := report.Status
		if err := tx.UpdateDamageReportStatus(ctx, reportID, req.Status, req.AdminNotes); err != nil {
			return err
		}

		boardStatus := ""
		switch req.Status {
		case model.DamageStatusInRepair:
			boardStatus = model.BoardStatusInRepair
		case model.DamageStatusReplaced:
			boardStatus = model.BoardStatusReplaced
		}
		if boardStatus != "" {
			if err := tx.UpdateBoardStatus(ctx, report.BoardID, boardStatus); err != nil {
				return err
			}
		}

		board, err := tx.FindBoard(ctx, report.BoardID)
		if err != nil {
			return err
		}
		return tx.AppendActivity(ctx, &model.ActivityLog{
			ID:         uuid.NewString(),
			UserID:     mw.UserID(c),
			BoardID:    report.BoardID,
			LocationID: board.LocationID,
			ActionType: model.ActionDamageStatusChange,
			Details: model.DetailsJSON(model.DamageStatusChangeDetails{
				DamageReportID: report.ID,
				OldStatus:      oldStatus,
				NewStatus:      req.Status,
			}),
			Timestamp: time.Now().UTC(),
		})
	})
	if err != nil {
		if store.IsRecordNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Damage report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ListActivity returns the audit trail for a location or board.
func (h *Handler) ListActivity(c *gin.Context) {
	ctx := c.Request.Context()
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	if boardID := c.Query("board"); boardID != "" {
		entries, err := h.store.ListActivityByBoard(ctx, boardID, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"activity": entries})
		return
	}

	locationID := c.Query("location")
	if locationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location or board is required"})
		return
	}
	entries, err := h.store.ListActivityByLocation(ctx, locationID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": entries})
}

// UsageReport returns aggregate usage statistics for a location over a
// date range defaulting to the last 30 days.
func (h *Handler) UsageReport(c *gin.Context) {
	locationID := c.Query("location")
	if locationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location is required"})
		return
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)
	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be RFC3339"})
			return
		}
		start = parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be RFC3339"})
			return
		}
		end = parsed
	}

	usage, err := h.reports.Usage(c.Request.Context(), locationID, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, usage)
}
