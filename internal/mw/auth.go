package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"surfboard-checkout-backend/internal/model"
	"surfboard-checkout-backend/internal/session"
)

// SessionCookie is the cookie carrying the redis session id.
const SessionCookie = "surf_session"

// Context keys set by Auth for downstream handlers.
const (
	CtxUserID = "userID"
	CtxRole   = "role"
)

// Auth resolves the session cookie and stores the caller's identity in the
// gin context. Requests without a valid session are rejected.
func Auth(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		sess, err := sessions.Get(c.Request.Context(), sid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			return
		}
		c.Set(CtxUserID, sess.UserID)
		c.Set(CtxRole, sess.Role)
		c.Next()
	}
}

// RequireAdmin guards admin-only routes. It must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRole) != model.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id from the context.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}
