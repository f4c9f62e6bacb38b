package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	limits "github.com/gin-contrib/size"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/poc3/api-backend/docs"
	"github.com/poc3/api-backend/internal/config"
	"github.com/poc3/api-backend/internal/crypto"
	"github.com/poc3/api-backend/internal/handlers"
	"github.com/poc3/api-backend/internal/middleware"
	"github.com/poc3/api-backend/internal/repositories"
	"github.com/poc3/api-backend/internal/services"
	"github.com/poc3/api-backend/internal/templates"
)

const healthPath = "/health"

// DashboardDeps are the services the dashboard router is built from
type DashboardDeps struct {
	Health   handlers.HealthReporter
	Poller   *services.Poller
	Monitor  *services.MonitorService
	Repo     *repositories.ServiceCheckRepository
	Renderer *templates.TemplateRenderer
	Cleanup  *services.CleanupService
}

// NewHelloServer builds the hello service router.
// The returned stop function releases the rate limiter.
func NewHelloServer(cfg config.HelloConfig, logger *zap.Logger, greeting *services.GreetingService) (*gin.Engine, func(), error) {
	r, stop, err := newEngine(cfg.Server, logger)
	if err != nil {
		return nil, nil, err
	}

	h := handlers.NewHelloHandler(greeting)

	r.GET(healthPath, h.Health)
	r.GET("/", h.Root)
	r.GET("/api/info", h.Info)

	api := r.Group("/api/hello")
	{
		api.GET("", h.HelloQuery)
		api.GET("/:name", h.HelloPath)
		api.POST("", h.HelloPost)
	}

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.NoRoute(handlers.NotFound)

	return r, stop, nil
}

// NewDashboardServer builds the status dashboard router.
// Admin routes are only mounted when an admin secret is configured.
func NewDashboardServer(cfg config.DashboardConfig, logger *zap.Logger, deps DashboardDeps) (*gin.Engine, func(), error) {
	if cfg.AdminJWTSecret != "" {
		if err := crypto.ValidateSecret(cfg.AdminJWTSecret); err != nil {
			return nil, nil, fmt.Errorf("invalid ADMIN_JWT_SECRET: %w", err)
		}
	}

	r, stop, err := newEngine(cfg.Server, logger)
	if err != nil {
		return nil, nil, err
	}

	refresh := int(cfg.PollInterval.Seconds())
	h := handlers.NewDashboardHandler(deps.Poller, deps.Monitor, deps.Repo, deps.Renderer, cfg.HistoryLimit, refresh)

	r.GET(healthPath, handlers.HealthHandler(deps.Health))
	r.GET("/", h.Page)

	api := r.Group("/api")
	{
		api.GET("/targets", h.Targets)
		api.GET("/status", h.Status)
		api.GET("/status/history", h.History)
		api.GET("/greet/:target", h.Greet)
	}

	if cfg.AdminJWTSecret != "" {
		cleanup := handlers.NewCleanupHandler(deps.Cleanup)

		admin := r.Group("/admin", middleware.AdminAuthMiddleware(middleware.SecretVerifier(cfg.AdminJWTSecret)))
		admin.POST("/history/cleanup", cleanup.CleanupHistory)
	} else {
		logger.Warn("ADMIN_JWT_SECRET not set, admin routes disabled")
	}

	r.NoRoute(handlers.NotFound)

	return r, stop, nil
}

// newEngine creates a gin engine with the middleware shared by both binaries
func newEngine(cfg config.Server, logger *zap.Logger) (*gin.Engine, func(), error) {
	r := gin.New()
	// Match on the escaped path so an encoded slash stays inside one path
	// parameter; parameters are unescaped before handlers see them.
	r.UseRawPath = true
	r.UnescapePathValues = true

	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	corsMiddleware, err := middleware.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowedMethods, cfg.CORSAllowedHeaders)
	if err != nil {
		return nil, nil, err
	}

	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(logger, healthPath),
		middleware.Recovery(logger),
		middleware.ErrorReporter(logger),
		middleware.SecurityHeaders(),
		corsMiddleware,
	)

	stop := func() {}
	if cfg.RateLimitRequests > 0 {
		limiter := middleware.NewFixedWindowLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
		r.Use(middleware.RateLimit(limiter, healthPath))
		stop = limiter.Stop
	}

	r.Use(limits.RequestSizeLimiter(cfg.MaxBodyBytes))

	return r, stop, nil
}

// Serve runs handler on the configured address until ctx is cancelled,
// then drains in-flight requests for at most ShutdownTimeout.
func Serve(ctx context.Context, cfg config.Server, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server", zap.Duration("timeout", cfg.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}
