package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/example/salon/internal/cache"
	"github.com/example/salon/internal/config"
	"github.com/example/salon/internal/database"
	"github.com/example/salon/internal/handlers"
	"github.com/example/salon/internal/logger"
	"github.com/example/salon/internal/middleware"
	"github.com/example/salon/internal/routes"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	defer log.Sync() //nolint:errcheck

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	var limitStorage fiber.Storage
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Warn("redis unavailable, rate limits stay in memory", zap.Error(err))
		} else {
			limitStorage = cache.NewStorage(client, "salon:limit:")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      "Salon Backend",
		ErrorHandler: handlers.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))
	app.Use(middleware.Logging(log))
	app.Use(middleware.Metrics())

	routes.Register(app, routes.NewDependencies(db, cfg, log, limitStorage))

	go func() {
		log.Info("starting server", zap.String("port", cfg.AppPort))
		if err := app.Listen(":" + cfg.AppPort); err != nil {
			log.Fatal("fiber.Listen error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
	if limitStorage != nil {
		_ = limitStorage.Close()
	}
}
