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
	"github.com/poc3/api-backend/internal/database"
	"github.com/poc3/api-backend/internal/logger"
	"github.com/poc3/api-backend/internal/repositories"
	"github.com/poc3/api-backend/internal/server"
	"github.com/poc3/api-backend/internal/services"
	"github.com/poc3/api-backend/internal/templates"
)

const serviceName = "POC3 Status Dashboard"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dashboard: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.LoadDashboard()
	if err != nil {
		return err
	}

	log, err := logger.New(serviceName, cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	targets, err := cfg.ParsedTargets()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := database.InitDB(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	if err := database.Ping(db); err != nil {
		return err
	}

	repo := repositories.NewServiceCheckRepository(db)

	renderer, err := templates.NewTemplateRenderer()
	if err != nil {
		return err
	}

	var notifier services.TransitionNotifier
	if cfg.AlertsEnabled() {
		mailer, err := services.NewSESMailer(ctx, &services.EmailConfig{
			FromEmail: cfg.AlertFromEmail,
			Region:    cfg.AWSRegion,
		}, log)
		if err != nil {
			return err
		}

		alerts, err := services.NewAlertService(mailer, cfg.AlertToEmail, renderer)
		if err != nil {
			return err
		}
		notifier = alerts
		log.Info("status alerts enabled", zap.String("to", cfg.AlertToEmail))
	}

	poller := services.NewPoller(targets, cfg.PollTimeout, nil)

	monitor := services.NewMonitorService(poller, repo, notifier, cfg.PollInterval, log)
	if err := monitor.Restore(); err != nil {
		log.Warn("starting without previous poll cycle", zap.Error(err))
	}

	cleanup := services.NewCleanupService(repo, cfg.HistoryRetention, log)

	router, stop, err := server.NewDashboardServer(cfg, log, server.DashboardDeps{
		Health:   services.NewGreetingService(services.GreetingInfo{Service: serviceName, Version: "1.0.0"}),
		Poller:   poller,
		Monitor:  monitor,
		Repo:     repo,
		Renderer: renderer,
		Cleanup:  cleanup,
	})
	if err != nil {
		return err
	}
	defer stop()

	monitor.Start(ctx)
	defer monitor.Stop()

	cleanup.Start()
	defer cleanup.Stop()

	log.Info("starting dashboard",
		zap.Int("port", cfg.Port),
		zap.Int("targets", len(targets)),
		zap.Duration("poll_timeout", cfg.PollTimeout),
		zap.Duration("poll_interval", cfg.PollInterval),
	)

	if err := server.Serve(ctx, cfg.Server, router, log); err != nil {
		log.Error("dashboard stopped with error", zap.Error(err))
		return err
	}

	log.Info("dashboard stopped")
	return nil
}
