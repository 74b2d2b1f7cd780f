package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"surfboard-checkout-backend/config"
	"surfboard-checkout-backend/internal/api"
	"surfboard-checkout-backend/internal/broadcast"
	"surfboard-checkout-backend/internal/db"
	"surfboard-checkout-backend/internal/notification"
	"surfboard-checkout-backend/internal/report"
	"surfboard-checkout-backend/internal/service"
	"surfboard-checkout-backend/internal/session"
	"surfboard-checkout-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "surf-backend ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Fatalf("VAPID keys must be configured. Please generate them and add them to your config file.")
	}
	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatalf("failed to connect to redis at %s: %v", cfg.Redis.Addr, err)
	}
	sessions := session.NewStore(rdb, cfg.Session.TTL)
	logger.Println("redis session store initialized")

	appStore := store.New(gormDB)

	hub := broadcast.NewHub()
	go hub.Run()

	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, &webpushOptions)
	pool.Start(ctx)

	reservations := service.NewReservationService(appStore)
	checkouts := service.NewCheckoutService(appStore, reservations, pool, hub)
	inventory := service.NewInventoryService(appStore, hub)
	reports := report.NewService(appStore)

	poller := notification.NewPoller(reservations, pool, cfg.Poller.Interval)
	go poller.Run(ctx)

	handler := api.NewHandler(appStore, inventory, checkouts, reservations, reports, sessions, &webpushOptions)
	router := api.NewRouter(handler, sessions, hub, api.RouterConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		RateLimit:    rate.Limit(cfg.Server.RateLimitPerSec),
		RateBurst:    cfg.Server.RateBurst,
		CacheTTL:     time.Duration(cfg.Server.CacheTTLSeconds) * time.Second,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
