package services

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poc3/api-backend/internal/models"
)

var fixedNow = time.Date(2025, 11, 10, 14, 30, 0, 123_000_000, time.UTC)

func newTestGreeting() *GreetingService {
	return NewGreetingServiceWithClock(GreetingInfo{
		Service:     "Go Hello World API",
		Version:     "1.0.0",
		Technology:  "Go + Gin",
		Environment: "test",
	}, func() time.Time { return fixedNow })
}

func TestGreetingServiceHello(t *testing.T) {
	s := newTestGreeting()

	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"named", "Ada", "Hello, Ada!"},
		{"blank", "", "Hello, World!"},
		{"whitespace", "   ", "Hello, World!"},
		{"kept verbatim", "Grace Hopper", "Hello, Grace Hopper!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.Hello(tt.input)
			assert.Equal(t, tt.message, resp.Message)
			assert.Equal(t, "1.0.0", resp.Version)
			assert.Equal(t, "Go + Gin", resp.Technology)
			assert.Equal(t, "2025-11-10T14:30:00.123Z", resp.Timestamp)
			assert.Nil(t, resp.Received)
		})
	}
}

func TestGreetingServiceEcho(t *testing.T) {
	s := newTestGreeting()

	t.Run("name from body", func(t *testing.T) {
		resp, err := s.Echo([]byte(`{"name":"Ada","extra":[1,2]}`))
		require.NoError(t, err)
		assert.Equal(t, "Hello, Ada!", resp.Message)

		var received map[string]any
		require.NoError(t, json.Unmarshal(resp.Received, &received))
		assert.Equal(t, "Ada", received["name"])
		assert.Equal(t, []any{float64(1), float64(2)}, received["extra"])
	})

	t.Run("empty body", func(t *testing.T) {
		resp, err := s.Echo(nil)
		require.NoError(t, err)
		assert.Equal(t, "Hello, World!", resp.Message)
		assert.JSONEq(t, `{}`, string(resp.Received))
	})

	t.Run("non-string name", func(t *testing.T) {
		resp, err := s.Echo([]byte(`{"name":42}`))
		require.NoError(t, err)
		assert.Equal(t, "Hello, World!", resp.Message)
		assert.JSONEq(t, `{"name":42}`, string(resp.Received))
	})

	nonObjects := []struct {
		name string
		body string
	}{
		{"array of objects", `[{"name":"Ada"}]`},
		{"empty array", `[]`},
		{"string", `"Ada"`},
		{"number", `42`},
		{"null", `null`},
	}

	for _, tt := range nonObjects {
		t.Run("accepts "+tt.name, func(t *testing.T) {
			resp, err := s.Echo([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, "Hello, World!", resp.Message)
			assert.JSONEq(t, tt.body, string(resp.Received))
		})
	}

	for _, body := range []string{`{"name":`, `not json`, `[1,`, `{"name":"Ada"} trailing`} {
		t.Run("rejects "+body, func(t *testing.T) {
			_, err := s.Echo([]byte(body))
			assert.True(t, errors.Is(err, ErrInvalidBody), "Echo(%s) error = %v", body, err)
		})
	}
}

func TestGreetingServiceHealth(t *testing.T) {
	clock := fixedNow
	s := NewGreetingServiceWithClock(GreetingInfo{Service: "svc", Version: "2.0.0"}, func() time.Time { return clock })

	clock = clock.Add(90 * time.Second)
	health := s.Health()

	assert.Equal(t, models.HealthStatusHealthy, health.Status)
	assert.Equal(t, 90.0, health.Uptime)
	assert.Equal(t, "2.0.0", health.Version)
	assert.Equal(t, "2025-11-10T14:31:30.123Z", health.Timestamp)
}

func TestGreetingServiceInfo(t *testing.T) {
	s := newTestGreeting()

	info := s.ServiceInfo([]string{"/health", "/api/hello"})
	assert.Equal(t, "Go Hello World API", info.Service)
	assert.Len(t, info.Endpoints, 2)

	app := s.AppInfo([]models.EndpointInfo{{Path: "/health", Method: "GET"}})
	assert.Equal(t, "test", app.Environment)
	assert.Len(t, app.Endpoints, 1)
}
