package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tiketin/payment-api/internal/cache"
	"github.com/tiketin/payment-api/internal/config"
	"github.com/tiketin/payment-api/internal/database"
	"github.com/tiketin/payment-api/internal/handler"
	"github.com/tiketin/payment-api/internal/ledger"
	"github.com/tiketin/payment-api/internal/middleware"
	"github.com/tiketin/payment-api/internal/repository"
	"github.com/tiketin/payment-api/internal/service"
	"github.com/tiketin/payment-api/internal/store"
	"github.com/tiketin/payment-api/pkg/xendit"
)

// main is the application entrypoint for the Tiketin payment API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting payment api")

	if cfg.Xendit.CallbackToken == "" {
		log.Warn().Msg("XENDIT_CALLBACK_TOKEN not set - every webhook delivery will be rejected")
	}

	// 3. Connect database (optional: store-less mode skips booking updates)
	var bookingRepo *repository.BookingRepository
	var auditRepo *repository.AuditRepository
	if cfg.DB.Configured() {
		db, err := database.Connect(&cfg.DB)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		// 3a. Run migrations
		if err := runMigrations(db.DB); err != nil {
			log.Error().Err(err).Msg("migration failed")
			fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
			os.Exit(1)
		}
		log.Info().Msg("migrations completed successfully")

		bookingRepo = repository.NewBookingRepository(db)
		auditRepo = repository.NewAuditRepository(db)
	} else {
		log.Warn().Msg("database not configured - booking updates and audit traces disabled")
	}

	// 3b. Connect Redis when configured; fall back to in-memory stores
	var dedupStore store.DedupStore
	var ledgerStore ledger.Store
	if cfg.Redis.Configured() {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Error().Err(err).Msg("redis connection failed")
			fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected successfully")

		dedupStore = cache.NewRedisDedupStore(redisClient, cfg.Xendit.DedupTTL)
		ledgerStore = cache.NewRedisLedgerStore(redisClient, cfg.Idempotency.TTL)
	} else {
		log.Info().Msg("redis not configured - using in-memory dedup and idempotency stores")
		dedupStore = store.NewMemoryDedupStore()
		ledgerStore = ledger.NewMemoryStore(cfg.Idempotency.TTL, cfg.Idempotency.SweepThreshold)
	}

	// 4. Initialize provider client
	xenditClient := xendit.NewClient(cfg.Xendit.BaseURL, cfg.Xendit.APIKey)

	// 5. Initialize services
	webhookStore := store.NewWebhookStore()
	bookingSvc := newBookingService(bookingRepo)
	webhookSvc := service.NewWebhookService(dedupStore, webhookStore, bookingSvc, newAuditStore(auditRepo))

	// 6. Initialize handlers
	handlers := &Handlers{
		Health:  handler.NewHealthHandler(xenditClient),
		Webhook: handler.NewWebhookHandler(webhookSvc, webhookStore),
		Payment: handler.NewPaymentHandler(xenditClient),
	}

	// 7. Initialize middleware
	callbackTokenMw := middleware.NewCallbackTokenMiddleware(cfg.Xendit.CallbackToken)
	idempotencyMw := middleware.NewIdempotencyMiddleware(ledgerStore)
	jwtMw := middleware.NewJWTMiddleware(cfg.JWTSecret)

	// 8. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, callbackTokenMw, idempotencyMw, jwtMw)

	// 9. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 10. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 11. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// newBookingService keeps the nil-store operating mode explicit: a typed nil
// repository must not reach the service as a non-nil interface.
func newBookingService(repo *repository.BookingRepository) *service.BookingService {
	if repo == nil {
		return service.NewBookingService(nil)
	}
	return service.NewBookingService(repo)
}

func newAuditStore(repo *repository.AuditRepository) service.AuditStore {
	if repo == nil {
		return nil
	}
	return repo
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health  *handler.HealthHandler
	Webhook *handler.WebhookHandler
	Payment *handler.PaymentHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, callbackTokenMw *middleware.CallbackTokenMiddleware, idempotencyMw *middleware.IdempotencyMiddleware, jwtMw *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Provider webhook endpoint (shared-secret token guard)
	router.POST("/api/v1/webhooks/payments", callbackTokenMw.Handle(), handlers.Webhook.HandlePaymentWebhook)

	// Provider proxy routes; creates are idempotent by client key
	api := router.Group("/api/v1")
	{
		api.POST("/invoices", idempotencyMw.Handle(), handlers.Payment.CreateInvoice)
		api.GET("/invoices/:id", handlers.Payment.GetInvoice)
		api.POST("/payment-requests", idempotencyMw.Handle(), handlers.Payment.CreatePaymentRequest)
		api.GET("/payment-requests/:id", handlers.Payment.GetPaymentRequest)
	}

	// Admin debug surface
	admin := router.Group("/api/v1/admin")
	admin.Use(jwtMw.Handle())
	{
		admin.GET("/webhooks", handlers.Webhook.ListWebhooks)
		admin.GET("/webhooks/:id", handlers.Webhook.GetWebhook)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
