package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"surfboard-checkout-backend/internal/mw"
	"surfboard-checkout-backend/internal/store"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
}

// Login resolves the username to a user and mints a redis-backed session,
// returned both as a cookie and in the body for non-browser clients.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.FindUserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if store.IsRecordNotFound(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if err := h.store.TouchUserLogin(c.Request.Context(), user.ID); err != nil {
		// Last-login is informational only.
		_ = err
	}

	c.SetCookie(mw.SessionCookie, token, 0, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout drops the current session.
func (h *Handler) Logout(c *gin.Context) {
	sid, err := c.Cookie(mw.SessionCookie)
	if err == nil {
		if err := h.sessions.Delete(c.Request.Context(), sid); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}
	c.SetCookie(mw.SessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}
