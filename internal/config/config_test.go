package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadHello(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		removeEnv(t, "PORT")
		removeEnv(t, "CORS_ALLOWED_ORIGINS")
		removeEnv(t, "RATE_LIMIT_REQUESTS")
		removeEnv(t, "RATE_LIMIT_WINDOW")

		cfg, err := LoadHello()
		require.NoError(t, err)

		assert.Equal(t, DefaultHelloPort, cfg.Port)
		assert.Equal(t, "1.0.0", cfg.ServiceVersion)
		assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
		assert.Equal(t, 100, cfg.RateLimitRequests)
		assert.Equal(t, time.Minute, cfg.RateLimitWindow)
		assert.True(t, cfg.SwaggerEnabled)
	})

	t.Run("port from environment", func(t *testing.T) {
		t.Setenv("PORT", "5000")

		cfg, err := LoadHello()
		require.NoError(t, err)
		assert.Equal(t, 5000, cfg.Port)
		assert.Equal(t, "0.0.0.0:5000", cfg.Addr())
	})

	t.Run("invalid port", func(t *testing.T) {
		t.Setenv("PORT", "70000")

		_, err := LoadHello()
		assert.ErrorContains(t, err, "PORT must be between 1 and 65535")
	})

	t.Run("version must be semantic", func(t *testing.T) {
		t.Setenv("SERVICE_VERSION", "latest")

		_, err := LoadHello()
		assert.ErrorContains(t, err, "SERVICE_VERSION")
	})

	t.Run("unparsable window", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_WINDOW", "fifteen minutes")

		_, err := LoadHello()
		assert.Error(t, err)
	})
}

func TestLoadDashboard(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		removeEnv(t, "PORT")
		removeEnv(t, "TARGETS")
		removeEnv(t, "POLL_TIMEOUT")
		removeEnv(t, "ALERT_FROM_EMAIL")
		removeEnv(t, "ALERT_TO_EMAIL")

		cfg, err := LoadDashboard()
		require.NoError(t, err)

		assert.Equal(t, DefaultDashboardPort, cfg.Port)
		assert.Len(t, cfg.Targets, 4)
		assert.Equal(t, 3*time.Second, cfg.PollTimeout)
		assert.False(t, cfg.AlertsEnabled())
	})

	t.Run("poll timeout must be positive", func(t *testing.T) {
		t.Setenv("POLL_TIMEOUT", "0s")

		_, err := LoadDashboard()
		assert.ErrorContains(t, err, "POLL_TIMEOUT must be positive")
	})

	t.Run("targets are validated", func(t *testing.T) {
		t.Setenv("TARGETS", "Node.js API=ftp://localhost:3000")

		_, err := LoadDashboard()
		assert.ErrorContains(t, err, "must use http or https")
	})

	t.Run("alerts need both addresses", func(t *testing.T) {
		t.Setenv("ALERT_FROM_EMAIL", "alerts@example.com")
		removeEnv(t, "ALERT_TO_EMAIL")

		cfg, err := LoadDashboard()
		require.NoError(t, err)
		assert.False(t, cfg.AlertsEnabled())

		t.Setenv("ALERT_TO_EMAIL", "oncall@example.com")
		cfg, err = LoadDashboard()
		require.NoError(t, err)
		assert.True(t, cfg.AlertsEnabled())
	})
}

func TestLoadDotEnv(t *testing.T) {
	removeEnv(t, "SERVICE_NAME")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SERVICE_NAME=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SERVICE_NAME") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))

	cfg, err := LoadHello()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.ServiceName)
}

// removeEnv was mostly copied from the implementation of t.Setenv
func removeEnv(t *testing.T, key string) {
	t.Helper()

	prevValue, ok := os.LookupEnv(key)

	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("cannot unset environment variable: %v", err)
	}

	if ok {
		t.Cleanup(func() {
			os.Setenv(key, prevValue)
		})
	} else {
		t.Cleanup(func() {
			os.Unsetenv(key)
		})
	}
}
