package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecofix/config"
	"ecofix/cron"
	"ecofix/database"
	bookingRepo "ecofix/database/repository/booking"
	reviewRepo "ecofix/database/repository/review"
	"ecofix/handlers"
	"ecofix/middleware"
	"ecofix/routes"
	"ecofix/services/booking"
	"ecofix/services/checkout"
	"ecofix/services/notification"
	"ecofix/services/payment"
	"ecofix/services/receipt"
	"ecofix/services/review"
	"ecofix/services/tasks"
	"ecofix/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type repositories struct {
	bookings bookingRepo.BookingRepository
	reviews  reviewRepo.ReviewRepository
	health   map[string]utils.Pinger
}

// openRepositories connects the configured storage backend.
func openRepositories(logger *zap.Logger) repositories {
	cfg := config.AppConfig
	health := map[string]utils.Pinger{}

	switch cfg.StoreBackend {
	case "mongo":
		database.InitDB()
		db := database.MongoDatabase()
		health["mongo"] = func(ctx context.Context) error { return database.MongoClient.Ping(ctx, nil) }
		return repositories{
			bookings: bookingRepo.NewMongoBookingRepo(db),
			reviews:  reviewRepo.NewMongoReviewRepo(db),
			health:   health,
		}

	case "postgres":
		db, err := database.NewGormDB(cfg.PostgresDSN)
		if err != nil {
			logger.Fatal("main: failed to connect to Postgres", zap.Error(err))
		}
		bookings := bookingRepo.NewGormBookingRepo(db)
		reviews := reviewRepo.NewGormReviewRepo(db)
		if err := bookings.Migrate(); err != nil {
			logger.Fatal("main: bookings migration failed", zap.Error(err))
		}
		if err := reviews.Migrate(); err != nil {
			logger.Fatal("main: reviews migration failed", zap.Error(err))
		}
		if sqlDB, err := db.DB(); err == nil {
			health["postgres"] = sqlDB.PingContext
		}
		return repositories{bookings: bookings, reviews: reviews, health: health}

	case "supabase":
		client, err := database.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)
		if err != nil {
			logger.Fatal("main: failed to initialize Supabase", zap.Error(err))
		}
		return repositories{
			bookings: bookingRepo.NewSupabaseBookingRepo(client),
			reviews:  reviewRepo.NewSupabaseReviewRepo(client),
			health:   health,
		}
	}

	if cfg.StoreBackend != "memory" {
		logger.Warn("main: unknown store backend, using memory", zap.String("backend", cfg.StoreBackend))
	}
	return repositories{
		bookings: bookingRepo.NewMemoryBookingRepo(),
		reviews:  reviewRepo.NewMemoryReviewRepo(),
		health:   health,
	}
}

func newPaymentProcessor(logger *zap.Logger) payment.Processor {
	cfg := config.AppConfig
	secret := []byte(cfg.CardFingerprintSecret)

	if cfg.PaymentGateway == "stripe" {
		if cfg.StripeKey == "" {
			logger.Fatal("main: STRIPE_SECRET_KEY is required for the stripe gateway")
		}
		return payment.NewStripeProcessor(logger, cfg.StripeKey, cfg.PaymentCurrency, cfg.StripePaymentMethod, secret)
	}
	return payment.NewSimulatedProcessor(logger, payment.SimulatedConfig{
		Delay:       cfg.PaymentDelay,
		SuccessRate: cfg.PaymentSuccessRate,
	}, secret)
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// repositories.
	repos := openRepositories(logger)

	// services.
	bookingService, err := booking.NewDefaultBookingService(repos.bookings, newPaymentProcessor(logger), logger)
	if err != nil {
		logger.Fatal("main: booking service", zap.Error(err))
	}
	bookingService.StoreDelay = config.AppConfig.StoreDelay

	reviewService, err := review.NewDefaultReviewService(repos.reviews, bookingService, logger)
	if err != nil {
		logger.Fatal("main: review service", zap.Error(err))
	}

	notificationService := notification.NewInboxNotificationService(logger)

	var sessions checkout.SessionStore = checkout.NewMemorySessionStore(config.AppConfig.CheckoutTTL)
	reviewService.Cache = review.NewMemoryStatsCache(config.AppConfig.ReviewStatsTTL)
	if config.UsesRedis() {
		cache := utils.GetCacheClient()
		checkoutCache := utils.GetCheckoutCacheClient()
		reviewService.Cache = review.NewRedisStatsCache(cache, config.AppConfig.ReviewStatsTTL)
		sessions = checkout.NewRedisSessionStore(checkoutCache, config.AppConfig.CheckoutTTL)
		repos.health["redis"] = func(ctx context.Context) error { return cache.Ping(ctx).Err() }
	}

	checkoutService, err := checkout.NewDefaultCheckoutService(sessions, bookingService, notificationService, logger)
	if err != nil {
		logger.Fatal("main: checkout service", zap.Error(err))
	}

	// reminders.
	var reminderClient *asynq.Client
	var reminderServer *asynq.Server
	if config.AppConfig.RemindersEnabled {
		reminderClient = asynq.NewClient(cron.ReminderRedisOpt())
		bookingService.Reminders = tasks.NewAsynqReminderScheduler(reminderClient, config.AppConfig.ReminderLeadTime, logger)
		reminderServer = cron.InitReminderWorker(ctx, bookingService, notificationService)
	}

	utils.StartHealthMonitor(ctx, repos.health, 30*time.Second)

	// Create the Gin router.
	router := gin.New()
	if err := router.SetTrustedProxies(config.AppConfig.TrustedProxies); err != nil {
		logger.Fatal("main: trusted proxies", zap.Error(err))
	}
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	handlerBundle := &handlers.HandlerBundle{
		Bookings:      handlers.NewBookingHandler(bookingService, receipt.NewGenerator("Eco-Fix Connect", config.AppConfig.PaymentCurrency)),
		Reviews:       handlers.NewReviewHandler(reviewService),
		Payments:      handlers.NewPaymentHandler(),
		Checkout:      handlers.NewCheckoutHandler(checkoutService),
		Notifications: handlers.NewNotificationHandler(notificationService),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Info("Starting server",
		zap.String("addr", srv.Addr),
		zap.String("store", config.AppConfig.StoreBackend),
		zap.String("gateway", config.AppConfig.PaymentGateway))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if reminderServer != nil {
		reminderServer.Shutdown()
	}
	if reminderClient != nil {
		_ = reminderClient.Close()
	}
	if database.MongoClient != nil {
		_ = database.MongoClient.Disconnect(shutdownCtx)
	}

	logger.Info("main: server stopped gracefully")
}
