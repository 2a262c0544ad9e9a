package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dimitrije/volunteer-api/internal/catalog"
	"github.com/dimitrije/volunteer-api/internal/config"
	"github.com/dimitrije/volunteer-api/internal/database"
	"github.com/dimitrije/volunteer-api/internal/handlers"
	"github.com/dimitrije/volunteer-api/internal/jobs"
	"github.com/dimitrije/volunteer-api/internal/logging"
	authmw "github.com/dimitrije/volunteer-api/internal/middleware"
	"github.com/dimitrije/volunteer-api/internal/services"
	"github.com/dimitrije/volunteer-api/internal/sse"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"go.uber.org/zap"
)

const tokenCleanupSchedule = "@every 1h"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	refData, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	hub := sse.NewHub()
	go hub.Run(ctx)

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	tokenService := services.NewTokenService(db)
	emailService := services.NewEmailService(cfg.SMTP)
	notificationService := services.NewNotificationService(db, cfg.NotificationLimit, hub)
	activityService := services.NewActivityService(db, cfg.NotificationLimit)
	sink := services.NewFeedSink(notificationService, activityService, logger)

	userService := services.NewUserService(db, sink)
	profileService := services.NewProfileService(db, cfg.AvailabilityHorizonDays)
	eventService := services.NewEventService(db, sink, refData.Urgency)
	inviteService := services.NewInviteService(db, sink, emailService, cfg.BaseURL, logger)
	historyService := services.NewHistoryService(db)
	matchingService := services.NewMatchingService(eventService, userService)
	calendarService := services.NewCalendarService(inviteService)

	if !emailService.IsConfigured() {
		logger.Info("SMTP not configured, invite emails are disabled")
	}

	scheduler := jobs.NewScheduler(logger)
	if err := scheduler.Schedule(cfg.LifecycleSweepCron, jobs.NewLifecycleSweep(eventService, logger)); err != nil {
		logger.Fatal("Failed to schedule lifecycle sweep", zap.Error(err))
	}
	if err := scheduler.Schedule(tokenCleanupSchedule, jobs.NewTokenCleanup(tokenService, logger)); err != nil {
		logger.Fatal("Failed to schedule token cleanup", zap.Error(err))
	}
	scheduler.Start()

	authHandler := handlers.NewAuthHandler(userService, tokenService, jwtService, logger)
	userHandler := handlers.NewUserHandler(userService, profileService, historyService, inviteService, calendarService, logger)
	eventHandler := handlers.NewEventHandler(eventService, matchingService, logger)
	inviteHandler := handlers.NewInviteHandler(inviteService, logger)
	notificationHandler := handlers.NewNotificationHandler(notificationService, activityService, logger)
	sseHandler := handlers.NewSSEHandler(hub)
	catalogHandler := handlers.NewCatalogHandler(refData)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	api.Get("/data/skills", catalogHandler.Skills)
	api.Get("/data/urgency", catalogHandler.Urgency)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Get("/users/:id/profile", userHandler.GetProfile)
	protected.Put("/users/:id/profile", userHandler.UpdateProfile)
	protected.Get("/users/:id/history", userHandler.History)
	protected.Get("/users/:id/events", userHandler.SignedUpEvents)
	protected.Get("/users/:id/invites", userHandler.Invites)
	protected.Get("/users/:id/calendar.ics", userHandler.Calendar)

	protected.Get("/events", eventHandler.List)
	protected.Get("/events/:id", eventHandler.Get)

	protected.Post("/invites", inviteHandler.Create)
	protected.Put("/invites/:id", inviteHandler.Update)
	protected.Delete("/invites/:id", inviteHandler.Delete)

	protected.Get("/notifications", notificationHandler.List)
	protected.Put("/notifications/:id/read", notificationHandler.MarkRead)
	protected.Get("/notifications/stream", sseHandler.Connect)

	admin := api.Group("")
	admin.Use(authmw.Auth(jwtService))
	admin.Use(authmw.RequireAdmin())

	admin.Get("/users", userHandler.List)
	admin.Patch("/users/:id", userHandler.Update)
	admin.Delete("/users/:id", userHandler.Delete)

	admin.Post("/events", eventHandler.Create)
	admin.Put("/events/:id", eventHandler.Update)
	admin.Delete("/events/:id", eventHandler.Delete)
	admin.Get("/matching/:eventId", eventHandler.Matches)

	admin.Get("/invites", inviteHandler.List)
	admin.Put("/invites/:id/complete", inviteHandler.Complete)

	admin.Get("/activity", notificationHandler.Activity)

	api.Get("/health", func(c *drift.Context) {
		if err := db.Pool.Ping(c.Request.Context()); err != nil {
			_ = c.JSON(503, map[string]string{"status": "unavailable"})
			return
		}
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logger.Info("Server starting", zap.String("addr", addr))
		if err := app.Run(addr); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	scheduler.Stop()
	cancel()
}
