package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"surfboard-checkout-backend/internal/broadcast"
	"surfboard-checkout-backend/internal/mw"
	"surfboard-checkout-backend/internal/session"
)

// RouterConfig carries the tunables the router needs beyond its handler.
type RouterConfig struct {
	AllowOrigins []string
	RateLimit    rate.Limit
	RateBurst    int
	CacheTTL     time.Duration
}

// NewRouter creates and configures the gin router.
func NewRouter(h *Handler, sessions *session.Store, hub *broadcast.Hub, cfg RouterConfig) *gin.Engine {
	r := gin.Default()

	if len(cfg.AllowOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.AllowOrigins
		corsCfg.AllowCredentials = true
		r.Use(cors.New(corsCfg))
	}

	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 10
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 5
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Second
	}

	rateLimiter := mw.RateLimiter(cfg.RateLimit, cfg.RateBurst)
	cacheStore := cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	caching := mw.Cache(cacheStore, cfg.CacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/auth/login", h.Login)
		api.POST("/auth/logout", h.Logout)

		api.GET("/locations", caching, h.ListLocations)
		api.GET("/locations/:id/boards", caching, h.ListBoards)
		api.GET("/locations/:id/boards/available", h.ListAvailableBoards)
		api.GET("/boards/:id/availability", h.CheckAvailability)
		api.GET("/boards/:id/ratings", h.ListBoardRatings)
		api.GET("/boards/:id/reservations", h.ListBoardReservations)

		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
		api.GET("/ws/:locationId", hub.ServeWS)

		authed := api.Group("")
		authed.Use(mw.Auth(sessions))
		{
			authed.POST("/boards/:id/checkout", h.CreateCheckout)
			authed.POST("/boards/:id/reservations", h.CreateReservation)
			authed.POST("/boards/:id/ratings", h.RateBoard)

			authed.GET("/checkouts", h.ListCheckouts)
			authed.POST("/checkouts/:id/return", h.ReturnCheckout)
			authed.POST("/checkouts/:id/cancel", h.CancelCheckout)

			authed.GET("/reservations", h.ListMyReservations)
			authed.POST("/reservations/:id/fulfill", h.FulfillReservation)
			authed.POST("/reservations/:id/cancel", h.CancelReservation)

			authed.GET("/subscriptions", h.GetSubscriptions)
			authed.PUT("/subscriptions", h.PutSubscription)
			authed.DELETE("/subscriptions", h.DeleteSubscription)

			admin := authed.Group("/admin")
			admin.Use(mw.RequireAdmin())
			{
				admin.POST("/boards/:id/status", h.UpdateBoardStatus)
				admin.GET("/damage-reports", h.ListDamageReports)
				admin.POST("/damage-reports/:id/status", h.UpdateDamageReportStatus)
				admin.GET("/activity", h.ListActivity)
				admin.GET("/reports/usage", h.UsageReport)
			}
		}
	}

	return r
}
