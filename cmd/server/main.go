// Command server runs the church event console API.
//
//go:generate swag init -g cmd/server/main.go -o docs
//
// @title Church Events API
// @version 1.0
// @description Events, day programs, registrations and check-in for the church event console.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"churchevents/config"
	_ "churchevents/docs"
	"churchevents/internal/adapters/auth"
	"churchevents/internal/adapters/calendar"
	"churchevents/internal/adapters/email"
	"churchevents/internal/adapters/sessionize"
	deliveryhttp "churchevents/internal/delivery/http"
	"churchevents/internal/delivery/http/controllers"
	"churchevents/internal/delivery/http/middleware"
	"churchevents/internal/repository/postgres"
	"churchevents/internal/scheduler"
	"churchevents/internal/services"

	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.NewLogger("", os.Stderr).Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment, os.Stdout)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(pingCtx)
	cancelPing()
	if err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}

	// Repositories
	eventRepo := postgres.NewEventRepository(db)
	programRepo := postgres.NewProgramRepository(db)
	registrationRepo := postgres.NewEventRegistrationRepository(db)
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)

	// Adapters
	tokens := auth.NewJWTManager(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(0)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	feed := sessionize.NewHTTPFeed(&http.Client{Timeout: 15 * time.Second}, sessionize.DefaultBaseURL)
	encoder := calendar.NewICSEncoder(cfg.EventTimezone)

	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		logger.Error("failed to parse email templates", "err", err)
		os.Exit(1)
	}

	// Services
	emailService := services.NewEmailService(mailer, renderer, logger)
	eventService := services.NewEventService(eventRepo, programRepo, cfg.RequestTimeout)
	programService := services.NewProgramService(eventRepo, programRepo, feed, encoder, logger, cfg.RequestTimeout)
	attendeeService := services.NewAttendeeService(eventRepo, registrationRepo, userRepo, roleRepo, emailService, logger, cfg.RequestTimeout)
	userService := services.NewUserService(userRepo, roleRepo, hasher, tokens, cfg.JWTExpiry, emailService, logger, cfg.RequestTimeout)
	reminderService := services.NewReminderService(eventRepo, registrationRepo, userRepo, programRepo, emailService, cfg.EventTimezone, logger)

	reminders, err := scheduler.NewReminderJob(cfg.ReminderCron, cfg.EventTimezone, reminderService, logger, 10*time.Minute)
	if err != nil {
		logger.Error("failed to schedule reminders", "err", err)
		os.Exit(1)
	}

	router := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Auth:     controllers.NewAuthController(logger, userService, cfg.JWTExpiry),
		User:     controllers.NewUserController(logger, userService),
		Event:    controllers.NewEventController(logger, eventService),
		Program:  controllers.NewProgramController(logger, programService),
		Attendee: controllers.NewAttendeeController(logger, attendeeService),
	}, tokens, logger)

	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSAllowedOrigins, router))
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reminders.Start()
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment, "next_reminder_run", reminders.Next())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
	reminders.Stop(shutdownCtx)
}
