package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"taxinvoice-backend/config"
	"taxinvoice-backend/database"
	"taxinvoice-backend/logger"
	"taxinvoice-backend/middlewares"
	"taxinvoice-backend/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	l, err := logger.Init(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = l.Sync() }()

	// ---- Database
	if err := database.Connect(cfg); err != nil {
		l.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(database.DB); err != nil {
		l.Fatal("database migration failed", zap.Error(err))
	}

	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler:          middlewares.ErrorHandler,
		BodyLimit:             cfg.Server.BodyLimitBytes,
		DisableStartupMessage: cfg.IsProduction(),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middlewares.RequestLogger())

	// ---- CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.AllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, " + middlewares.IdempotencyHeader,
		ExposeHeaders: "Content-Disposition, Idempotent-Replayed",
	}))

	// ---- Global rate limiter (default key is the client IP)
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.Server.RateLimitMax,
		Expiration: cfg.Server.RateLimitWindow,
	}))

	// ---- Routes
	routes.Register(app)

	// ---- Start
	go func() {
		l.Info("API server starting", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			l.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		l.Error("server shutdown failed", zap.Error(err))
	}
	if err := database.Close(); err != nil {
		l.Error("database close failed", zap.Error(err))
	}
}
