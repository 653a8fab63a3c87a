package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sokaytech/storefront/internal/cart"
	"github.com/sokaytech/storefront/internal/catalog"
	"github.com/sokaytech/storefront/internal/checkout"
	"github.com/sokaytech/storefront/internal/config"
	"github.com/sokaytech/storefront/internal/events"
	"github.com/sokaytech/storefront/internal/handlers"
	"github.com/sokaytech/storefront/internal/logging"
	"github.com/sokaytech/storefront/internal/mail"
	"github.com/sokaytech/storefront/internal/middleware/loggingmw"
	"github.com/sokaytech/storefront/internal/orders"
	"github.com/sokaytech/storefront/internal/paystack"
	"github.com/sokaytech/storefront/internal/search"
	httpserver "github.com/sokaytech/storefront/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting storefront", "environment", cfg.Environment)

	var (
		db           *gorm.DB
		orderStore   orders.Store
		catalogStore catalog.Store
		sessions     checkout.SessionStore
		cartStorage  cart.Storage
		redisClient  *redis.Client
	)

	if cfg.DatabaseURL == "" {
		// Offline mode: no database configured, serve the seed catalog
		// and keep orders in memory so the shop stays browsable.
		logger.Warn("DATABASE_URL not set, running in offline mode")
		orderStore = orders.NewOfflineStore()
		catalogStore = catalog.NewOfflineStore()
		sessions = checkout.NewMemorySessions()
		cartStorage = cart.NewMemoryStorage()
	} else {
		db, err = config.InitDB(cfg)
		if err != nil {
			log.Fatalf("database init failed: %v", err)
		}
		orderStore = orders.NewGormStore(db)
		catalogStore = catalog.NewGormStore(db)
		sessions = checkout.NewGormSessions(db)

		config.MustNonEmpty(cfg.JWTSecret, "JWT_SECRET")

		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("redis ping failed: %v", err)
		}
		cartStorage = cart.NewRedisStorage(redisClient)
	}

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
	}

	var searchService *search.Service
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init failed: %v", err)
		}
		searchService = &search.Service{ES: esClient}
	}

	notifier := &mail.Notifier{
		Client:     mail.NewClient(&cfg.Resend),
		AdminEmail: cfg.AdminEmail,
	}
	payments := paystack.NewClient(&cfg.Paystack)

	var publisher checkout.EventPublisher
	if producer != nil {
		publisher = producer
	}
	checkoutService := checkout.NewService(
		orderStore, payments, cartStorage, sessions, notifier, publisher, logger)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		JWTSecret:           []byte(cfg.JWTSecret),
		ProductHandler:      &handlers.ProductHandler{Catalog: catalogStore},
		SearchHandler:       &handlers.SearchHandler{Search: searchService},
		CartHandler:         &handlers.CartHandler{Catalog: catalogStore, Storage: cartStorage},
		CheckoutHandler:     &handlers.CheckoutHandler{Service: checkoutService},
		NewsletterHandler:   &handlers.NewsletterHandler{DB: db, Notifier: notifier},
		AuthHandler:         &handlers.AuthHandler{DB: db, JWTSecret: []byte(cfg.JWTSecret)},
		AdminOrderHandler:   &handlers.AdminOrderHandler{Orders: orderStore},
		AdminProductHandler: &handlers.AdminProductHandler{Catalog: catalogStore, Search: searchService, Producer: producer},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Error("db close error", "error", err)
			}
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
