package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"naksha/config"
	ncron "naksha/cron"
	"naksha/database"
	clientRepoPkg "naksha/database/repository/client"
	consultantRepoPkg "naksha/database/repository/consultant"
	patternRepoPkg "naksha/database/repository/pattern"
	sessionRepoPkg "naksha/database/repository/session"
	slotRepoPkg "naksha/database/repository/slot"
	"naksha/handlers"
	"naksha/middleware"
	"naksha/models"
	"naksha/routes"
	"naksha/services/availability"
	"naksha/services/booking"
	"naksha/services/coherence"
	"naksha/services/notification"
	"naksha/services/tasks"
	"naksha/utils"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	db := database.GetDB()
	cache := utils.GetCache()

	// repositories.
	consultants := consultantRepoPkg.NewGormConsultantRepo(db)
	patterns := patternRepoPkg.NewGormPatternRepo(db)
	slots := slotRepoPkg.NewGormSlotRepo(db)
	clients := clientRepoPkg.NewGormClientRepo(db)
	sessions := sessionRepoPkg.NewGormSessionRepo(db)

	// coherence controller: the single post-commit invalidation path.
	coherenceCtrl := coherence.NewController(cache, logger)

	// services.
	availabilitySvc := &availability.DefaultAvailabilityService{
		DB:          db,
		Patterns:    patterns,
		Slots:       slots,
		Consultants: consultants,
		Cache:       cache,
		Coherence:   coherenceCtrl,
		HorizonDays: config.AppConfig.SlotHorizonDays,
	}

	notifier := notification.LogNotificationService{}
	reminderScheduler := tasks.NewAsynqReminderScheduler(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})

	bookingSvc := &booking.DefaultBookingService{
		DB:          db,
		Sessions:    sessions,
		Clients:     clients,
		Slots:       slots,
		Consultants: consultants,
		Coherence:   coherenceCtrl,
		Notifier:    notifier,
		Reminders:   reminderScheduler,
	}

	availabilityHandler := handlers.NewAvailabilityHandler(availabilitySvc)
	bookingHandler := handlers.NewBookingHandler(bookingSvc)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		ConsultantRepo: consultants,

		// Availability endpoints.
		GetPatternsHandler:     availabilityHandler.GetPatternsHandler,
		CreatePatternHandler:   availabilityHandler.CreatePatternHandler,
		UpdatePatternHandler:   availabilityHandler.UpdatePatternHandler,
		DeletePatternHandler:   availabilityHandler.DeletePatternHandler,
		ReplacePatternsHandler: availabilityHandler.ReplacePatternsHandler,
		GenerateSlotsHandler:   availabilityHandler.GenerateSlotsHandler,
		PublicSlotsHandler:     availabilityHandler.PublicSlotsHandler,

		// Booking endpoints.
		BookSessionHandler:   bookingHandler.BookSessionHandler,
		ManualBookHandler:    bookingHandler.ManualBookHandler,
		CancelSessionHandler: bookingHandler.CancelSessionHandler,
		GetSessionHandler:    bookingHandler.GetSessionHandler,
		ListSessionsHandler:  bookingHandler.ListSessionsHandler,
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Background work: reminder delivery and the daily horizon top-up.
	ncron.InitReminderWorker(func(ctx context.Context, p models.ReminderPayload) error {
		logger.Sugar().Infof("reminder due: session %s for %s at %s %s",
			p.SessionID, p.ClientEmail, p.ScheduledDate, p.ScheduledTime)
		return nil
	})
	horizonCron, err := ncron.InitHorizonTopUp(availabilitySvc, consultants)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to schedule horizon top-up: %v", err)
	}

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	horizonCron.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
