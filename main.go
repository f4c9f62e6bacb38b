package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/poc3/api-backend/internal/config"
	"github.com/poc3/api-backend/internal/logger"
	"github.com/poc3/api-backend/internal/server"
	"github.com/poc3/api-backend/internal/services"
)

//go:generate swag init -g main.go -o docs --exclude cmd,scripts,internal/handlers/dashboard_handler.go,internal/handlers/cleanup_handler.go

// @title Go Hello World API
// @version 1.0.0
// @description Uniform hello-world HTTP contract: health, greeting and echo endpoints.
// @BasePath /

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hello service: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.LoadHello()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.ServiceName, cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	greeting := services.NewGreetingService(services.GreetingInfo{
		Service:     cfg.ServiceName,
		Version:     cfg.ServiceVersion,
		Technology:  cfg.Technology,
		Environment: cfg.Environment,
	})

	router, stop, err := server.NewHelloServer(cfg, log, greeting)
	if err != nil {
		return err
	}
	defer stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info("starting hello service",
		zap.String("version", cfg.ServiceVersion),
		zap.String("environment", cfg.Environment),
		zap.Int("port", cfg.Port),
		zap.Int("rate_limit", cfg.RateLimitRequests),
		zap.Duration("rate_limit_window", cfg.RateLimitWindow),
	)

	if err := server.Serve(ctx, cfg.Server, router, log); err != nil {
		log.Error("hello service stopped with error", zap.Error(err))
		return err
	}

	log.Info("hello service stopped")
	return nil
}
