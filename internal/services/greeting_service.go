package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/poc3/api-backend/internal/models"
	"github.com/poc3/api-backend/internal/validators"
)

// ErrInvalidBody is returned by Echo when the request body is not valid JSON
var ErrInvalidBody = errors.New("malformed JSON in request body")

// GreetingInfo identifies the running service in every response
type GreetingInfo struct {
	Service     string
	Version     string
	Technology  string
	Environment string
}

// GreetingService builds the hello, health and info payloads.
// It holds no per-request state and is safe for concurrent use.
type GreetingService struct {
	info      GreetingInfo
	startedAt time.Time
	now       func() time.Time
}

// NewGreetingService creates a greeting service using the wall clock
func NewGreetingService(info GreetingInfo) *GreetingService {
	return NewGreetingServiceWithClock(info, time.Now)
}

// NewGreetingServiceWithClock creates a greeting service with an injected clock
func NewGreetingServiceWithClock(info GreetingInfo, now func() time.Time) *GreetingService {
	return &GreetingService{
		info:      info,
		startedAt: now(),
		now:       now,
	}
}

// Hello greets name, or World when name is blank
func (s *GreetingService) Hello(name string) models.HelloResponse {
	return models.HelloResponse{
		Message:    fmt.Sprintf("Hello, %s!", validators.GreetingName(name)),
		Version:    s.info.Version,
		Timestamp:  validators.FormatUTCTimestamp(s.now()),
		Technology: s.info.Technology,
	}
}

// Echo greets the name found in a JSON body and echoes the body back.
// Any JSON value is accepted. An empty body counts as {}. The name is only
// read from an object; a missing or non-string name greets World.
func (s *GreetingService) Echo(body []byte) (models.HelloResponse, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		body = []byte("{}")
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return models.HelloResponse{}, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	var name string
	if fields, ok := parsed.(map[string]any); ok {
		name, _ = fields["name"].(string)
	}

	resp := s.Hello(name)
	resp.Received = json.RawMessage(body)
	return resp, nil
}

// Health reports liveness. It never touches external resources.
func (s *GreetingService) Health() models.HealthStatus {
	now := s.now()
	return models.HealthStatus{
		Status:    models.HealthStatusHealthy,
		Timestamp: validators.FormatUTCTimestamp(now),
		Uptime:    now.Sub(s.startedAt).Seconds(),
		Version:   s.info.Version,
		Service:   s.info.Service,
	}
}

// ServiceInfo describes the service for the root endpoint
func (s *GreetingService) ServiceInfo(endpoints []string) models.ServiceInfo {
	return models.ServiceInfo{
		Service:    s.info.Service,
		Version:    s.info.Version,
		Technology: s.info.Technology,
		Timestamp:  validators.FormatUTCTimestamp(s.now()),
		Endpoints:  endpoints,
	}
}

// AppInfo describes the application and its routes in structured form
func (s *GreetingService) AppInfo(endpoints []models.EndpointInfo) models.AppInfo {
	return models.AppInfo{
		Application:  s.info.Service,
		Version:      s.info.Version,
		Environment:  s.info.Environment,
		Technologies: []string{"Go", "Gin", "Swagger"},
		Description:  "Uniform hello-world API used to compare service stacks",
		Endpoints:    endpoints,
	}
}
