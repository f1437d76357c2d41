package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roombook/config"
	"roombook/cron"
	"roombook/database"
	adminRepo "roombook/database/repository/admin"
	bookingRepo "roombook/database/repository/booking"
	groupRepo "roombook/database/repository/group"
	notifyLogRepo "roombook/database/repository/notifylog"
	roomRepo "roombook/database/repository/room"
	"roombook/handlers"
	"roombook/middleware"
	"roombook/routes"
	"roombook/services/booking"
	"roombook/services/calendar"
	"roombook/services/command"
	"roombook/services/notify"
	"roombook/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()

	// LINE client for outbound pushes and webhook signature validation.
	bot, err := notify.NewLineBot(cfg.LineChannelSecret, cfg.LineChannelToken)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize LINE client: %v", err)
	}
	dispatcher := notify.NewDispatcher(notify.NewLinePushClient(bot))

	// repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	rooms := roomRepo.NewMongoRoomRepo()
	admins := adminRepo.NewMongoAdminRepo()
	groups := groupRepo.NewMongoGroupRepo()
	ledger := notifyLogRepo.NewMongoNotifyLogRepo()

	calendarSvc, err := calendar.NewGoogleCalendarService(context.Background(), cfg.GoogleCredentialsFile, rooms)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize calendar service: %v", err)
	}

	// services.
	bookingService := &booking.DefaultBookingService{
		Repo:     bookings,
		Rooms:    rooms,
		Admins:   admins,
		Notifier: dispatcher,
		Calendar: calendarSvc,
		BaseURL:  cfg.BaseURL,
		SignLink: func(bookingID, status string, ttl time.Duration) (string, error) {
			return utils.SignDecisionToken(cfg.LinkSecret, bookingID, status, ttl)
		},
	}
	interpreter := command.NewInterpreter(groups, bookings)

	// handlers.
	verifyToken := func(token, bookingID, status string) error {
		return utils.VerifyDecisionToken(cfg.LinkSecret, token, bookingID, status)
	}
	handlerBundle := &routes.HandlerBundle{
		Booking:       handlers.NewBookingHandler(bookingService, verifyToken),
		Rooms:         handlers.NewRoomHandler(rooms),
		Admins:        handlers.NewAdminHandler(admins),
		Webhook:       handlers.NewWebhookHandler(bot, interpreter, dispatcher),
		AdminAPIToken: cfg.AdminAPIToken,
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlerBundle)

	// Scheduled reminder jobs.
	worker := cron.NewReminderWorker(groups, bookings, ledger, dispatcher, utils.Bangkok())
	worker.Start()
	defer worker.Stop()

	// Start the HTTP server.
	port := cfg.AppPort
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
