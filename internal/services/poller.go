package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/poc3/api-backend/internal/models"
	"github.com/poc3/api-backend/internal/validators"
)

// ErrUnknownTarget is returned when a target name is not configured
var ErrUnknownTarget = errors.New("unknown target")

// maxResponseBytes caps how much of a target's body is kept
const maxResponseBytes = 64 << 10

const userAgent = "poc3-dashboard/1.0"

// Poller probes the configured targets. Every request gets its own timeout;
// there are no retries.
type Poller struct {
	targets []validators.Target
	timeout time.Duration
	client  *http.Client
	now     func() time.Time
}

// NewPoller creates a poller for targets. A nil client uses a dedicated transport.
func NewPoller(targets []validators.Target, timeout time.Duration, client *http.Client) *Poller {
	if client == nil {
		client = &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	}

	return &Poller{
		targets: append([]validators.Target(nil), targets...),
		timeout: timeout,
		client:  client,
		now:     time.Now,
	}
}

// Targets returns the configured targets in order
func (p *Poller) Targets() []validators.Target {
	return append([]validators.Target(nil), p.targets...)
}

// Target looks up a target by name, ignoring case
func (p *Poller) Target(name string) (validators.Target, error) {
	for _, t := range p.targets {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return validators.Target{}, fmt.Errorf("%w: %s", ErrUnknownTarget, name)
}

// PollAll checks every target's /health endpoint concurrently and returns once
// all of them have answered or timed out. A failing target never affects the
// others; its result carries the error instead.
func (p *Poller) PollAll(ctx context.Context) models.PollReport {
	started := p.now()
	results := make([]models.ServiceResult, len(p.targets))

	var g errgroup.Group
	for i, target := range p.targets {
		g.Go(func() error {
			results[i] = p.check(ctx, target)
			return nil
		})
	}
	// Workers capture their own failures, so Wait has nothing to report
	_ = g.Wait()

	return models.PollReport{
		CycleID:   uuid.NewString(),
		Timestamp: validators.FormatUTCTimestamp(started),
		AllAPIs:   results,
	}
}

func (p *Poller) check(ctx context.Context, target validators.Target) models.ServiceResult {
	result := models.ServiceResult{
		Name:   target.Name,
		URL:    target.URL,
		Status: models.CheckStatusError,
	}

	start := time.Now()
	status, body, err := p.get(ctx, target.URL+"/health")
	result.LatencyMs = time.Since(start).Milliseconds()
	result.HTTPStatus = status

	switch {
	case err != nil:
		result.Error = err.Error()
	case status < 200 || status > 299:
		result.Error = statusError(status)
	default:
		result.Status = models.CheckStatusHealthy
		if json.Valid(body) {
			result.Data = body
		}
	}

	return result
}

// Greet calls the hello endpoint of the named target
func (p *Poller) Greet(ctx context.Context, targetName, name string) (models.GreetResult, error) {
	target, err := p.Target(targetName)
	if err != nil {
		return models.GreetResult{}, err
	}

	endpoint := target.URL + "/api/hello"
	if name != "" {
		endpoint += "?" + url.Values{"name": {name}}.Encode()
	}

	result := models.GreetResult{API: target.Name}

	status, body, err := p.get(ctx, endpoint)
	if err != nil {
		result.Status = models.GreetStatusConnectionFailed
		result.Error = err.Error()
		return result, nil
	}

	result.Status = strconv.Itoa(status)
	if json.Valid(body) {
		result.Data = body
	}
	if status < 200 || status > 299 {
		result.Error = statusError(status)
	}

	return result, nil
}

// get performs one GET bounded by the poll timeout
func (p *Poller) get(ctx context.Context, endpoint string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, nil, fmt.Errorf("timeout of %dms exceeded", p.timeout.Milliseconds())
		}
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, body, nil
}

func statusError(status int) string {
	return fmt.Sprintf("request failed with status code %d", status)
}
