package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/poc3/api-backend/internal/validators"
)

// Server holds settings shared by every HTTP binary in this repository
type Server struct {
	Port  int  `env:"PORT"`
	Debug bool `env:"DEBUG" envDefault:"false"`

	// TrustedProxies lists proxy CIDRs whose X-Forwarded-For is honoured
	// Empty means the socket peer address is always used as the client IP
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	CORSAllowedMethods []string `env:"CORS_ALLOWED_METHODS" envDefault:"GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS"`
	CORSAllowedHeaders []string `env:"CORS_ALLOWED_HEADERS" envDefault:"Origin,Content-Length,Content-Type,Accept,Authorization,X-Request-ID"`

	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// HelloConfig configures the hello service binary
type HelloConfig struct {
	Server

	ServiceName    string `env:"SERVICE_NAME" envDefault:"Go Hello World API"`
	ServiceVersion string `env:"SERVICE_VERSION" envDefault:"1.0.0"`
	Technology     string `env:"TECHNOLOGY" envDefault:"Go + Gin"`
	Environment    string `env:"APP_ENV" envDefault:"production"`
	SwaggerEnabled bool   `env:"SWAGGER_ENABLED" envDefault:"true"`
}

// DashboardConfig configures the status dashboard binary
type DashboardConfig struct {
	Server

	// Targets is a comma separated list of name=url pairs
	Targets []string `env:"TARGETS" envDefault:"Node.js API=http://localhost:3000,.NET API=http://localhost:5000,Java API=http://localhost:8080,Python API=http://localhost:5001"`

	PollTimeout  time.Duration `env:"POLL_TIMEOUT" envDefault:"3s"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"30s"`

	DatabasePath     string        `env:"DATABASE_PATH" envDefault:"./data/dashboard.db"`
	HistoryRetention time.Duration `env:"HISTORY_RETENTION" envDefault:"168h"`
	HistoryLimit     int           `env:"HISTORY_LIMIT" envDefault:"100"`

	// AdminJWTSecret is a base64 encoded HMAC key; admin routes are disabled when empty
	AdminJWTSecret string `env:"ADMIN_JWT_SECRET"`

	AlertFromEmail string `env:"ALERT_FROM_EMAIL"`
	AlertToEmail   string `env:"ALERT_TO_EMAIL"`
	AWSRegion      string `env:"AWS_REGION" envDefault:"eu-west-1"`
}

const (
	DefaultHelloPort     = 3000
	DefaultDashboardPort = 3001
)

// LoadDotEnv loads variables from the given files into the process environment.
// Variables that are already set win over file values. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	return nil
}

// LoadHello parses the hello service configuration from the environment
func LoadHello() (HelloConfig, error) {
	var cfg HelloConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse hello config: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = DefaultHelloPort
	}

	if err := cfg.Server.Validate(); err != nil {
		return cfg, err
	}

	if err := validators.ValidateServiceVersion(cfg.ServiceVersion, "SERVICE_VERSION"); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// LoadDashboard parses the dashboard configuration from the environment
func LoadDashboard() (DashboardConfig, error) {
	var cfg DashboardConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse dashboard config: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = DefaultDashboardPort
	}

	if err := cfg.Server.Validate(); err != nil {
		return cfg, err
	}

	if cfg.PollTimeout <= 0 {
		return cfg, fmt.Errorf("POLL_TIMEOUT must be positive (got %s)", cfg.PollTimeout)
	}

	if cfg.PollInterval < 0 {
		return cfg, fmt.Errorf("POLL_INTERVAL must not be negative (got %s)", cfg.PollInterval)
	}

	if _, err := validators.ParseTargets(cfg.Targets); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ParsedTargets returns the validated poll targets
func (c DashboardConfig) ParsedTargets() ([]validators.Target, error) {
	return validators.ParseTargets(c.Targets)
}

// Validate checks the shared server settings
func (s Server) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535 (got %d)", s.Port)
	}

	if s.RateLimitRequests < 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must not be negative (got %d)", s.RateLimitRequests)
	}

	if s.RateLimitRequests > 0 && s.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}

	if s.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive (got %d)", s.MaxBodyBytes)
	}

	return nil
}

// Addr returns the listen address for the server
func (s Server) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", s.Port)
}

// AlertsEnabled reports whether both alert addresses are configured
func (c DashboardConfig) AlertsEnabled() bool {
	return c.AlertFromEmail != "" && c.AlertToEmail != ""
}
