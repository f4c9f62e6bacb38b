package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poc3/api-backend/internal/models"
	"github.com/poc3/api-backend/internal/validators"
)

func healthyServer(t *testing.T, service string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/health":
			_ = json.NewEncoder(w).Encode(models.HealthStatus{Status: "healthy", Service: service})
		case "/api/hello":
			name := r.URL.Query().Get("name")
			if name == "" {
				name = "World"
			}
			_ = json.NewEncoder(w).Encode(models.HelloResponse{Message: "Hello, " + name + "!"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func statusServer(t *testing.T, code int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(`{"error":"unavailable"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func hangingServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func TestPollAllMixedFleet(t *testing.T) {
	targets := []validators.Target{
		{Name: "Node.js API", URL: healthyServer(t, "node").URL},
		{Name: ".NET API", URL: deadURL(t)},
		{Name: "Java API", URL: statusServer(t, http.StatusServiceUnavailable).URL},
		{Name: "Python API", URL: hangingServer(t).URL},
	}

	p := NewPoller(targets, 300*time.Millisecond, nil)
	report := p.PollAll(context.Background())

	require.Len(t, report.AllAPIs, 4)
	assert.NotEmpty(t, report.CycleID)
	assert.True(t, validators.IsValidUTCTimestamp(report.Timestamp))

	for i, r := range report.AllAPIs {
		assert.Equal(t, targets[i].Name, r.Name, "results must follow target order")
	}

	node := report.AllAPIs[0]
	assert.Equal(t, models.CheckStatusHealthy, node.Status)
	assert.Equal(t, http.StatusOK, node.HTTPStatus)
	assert.JSONEq(t, `{"status":"healthy","timestamp":"","service":"node"}`, string(node.Data))
	assert.Empty(t, node.Error)

	dotnet := report.AllAPIs[1]
	assert.Equal(t, models.CheckStatusError, dotnet.Status)
	assert.Contains(t, dotnet.Error, "connection refused")
	assert.Zero(t, dotnet.HTTPStatus)

	java := report.AllAPIs[2]
	assert.Equal(t, models.CheckStatusError, java.Status)
	assert.Equal(t, "request failed with status code 503", java.Error)
	assert.Equal(t, http.StatusServiceUnavailable, java.HTTPStatus)
	assert.Nil(t, java.Data)

	python := report.AllAPIs[3]
	assert.Equal(t, models.CheckStatusError, python.Status)
	assert.Equal(t, "timeout of 300ms exceeded", python.Error)

	assert.Equal(t, 1, report.Healthy())
}

func TestPollAllRunsConcurrently(t *testing.T) {
	const n = 3

	var arrived sync.WaitGroup
	arrived.Add(n)

	// Each target answers only after every target has been called
	barrier := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		arrived.Done()
		done := make(chan struct{})
		go func() {
			arrived.Wait()
			close(done)
		}()
		select {
		case <-done:
			w.WriteHeader(http.StatusOK)
		case <-r.Context().Done():
		}
	})

	targets := make([]validators.Target, 0, n)
	for i := 0; i < n; i++ {
		srv := httptest.NewServer(barrier)
		t.Cleanup(srv.Close)
		targets = append(targets, validators.Target{Name: string(rune('A' + i)), URL: srv.URL})
	}

	report := NewPoller(targets, 5*time.Second, nil).PollAll(context.Background())

	for _, r := range report.AllAPIs {
		assert.Equal(t, models.CheckStatusHealthy, r.Status, "%s: %s", r.Name, r.Error)
	}
}

func TestPollAllEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	report := NewPoller([]validators.Target{{Name: "A", URL: srv.URL}}, time.Second, nil).PollAll(context.Background())

	require.Len(t, report.AllAPIs, 1)
	assert.Equal(t, models.CheckStatusHealthy, report.AllAPIs[0].Status)
	assert.Nil(t, report.AllAPIs[0].Data)
}

func TestGreet(t *testing.T) {
	healthy := healthyServer(t, "node")
	broken := statusServer(t, http.StatusInternalServerError)

	p := NewPoller([]validators.Target{
		{Name: "Node.js API", URL: healthy.URL},
		{Name: "Java API", URL: broken.URL},
		{Name: ".NET API", URL: deadURL(t)},
	}, time.Second, nil)

	t.Run("named greeting", func(t *testing.T) {
		res, err := p.Greet(context.Background(), "node.js api", "Ada Lovelace")
		require.NoError(t, err)
		assert.Equal(t, "Node.js API", res.API)
		assert.Equal(t, "200", res.Status)
		assert.JSONEq(t, `{"message":"Hello, Ada Lovelace!","version":"","timestamp":"","technology":""}`, string(res.Data))
	})

	t.Run("default greeting", func(t *testing.T) {
		res, err := p.Greet(context.Background(), "Node.js API", "")
		require.NoError(t, err)
		assert.Contains(t, string(res.Data), "Hello, World!")
	})

	t.Run("error status", func(t *testing.T) {
		res, err := p.Greet(context.Background(), "Java API", "Ada")
		require.NoError(t, err)
		assert.Equal(t, "500", res.Status)
		assert.Equal(t, "request failed with status code 500", res.Error)
	})

	t.Run("connection failed", func(t *testing.T) {
		res, err := p.Greet(context.Background(), ".NET API", "Ada")
		require.NoError(t, err)
		assert.Equal(t, models.GreetStatusConnectionFailed, res.Status)
		assert.NotEmpty(t, res.Error)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := p.Greet(context.Background(), "Rust API", "Ada")
		assert.True(t, errors.Is(err, ErrUnknownTarget))
	})
}
