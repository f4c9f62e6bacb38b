package models

import "encoding/json"

// ServiceResult is the outcome of polling one target's /health endpoint
type ServiceResult struct {
	Name       string `json:"name" example:"Node.js API"`
	URL        string `json:"url" example:"http://localhost:3000"`
	Status     string `json:"status" example:"healthy"`
	HTTPStatus int    `json:"http_status,omitempty" example:"200"`
	LatencyMs  int64  `json:"latency_ms" example:"12"`

	// Data is the target's health body, present when a response was received
	Data json.RawMessage `json:"data,omitempty" swaggertype:"object"`

	// Error is the raw failure message, present only when Status is "error"
	Error string `json:"error,omitempty" example:"request failed with status code 503"`
}

// IsHealthy returns true if the target answered with a 2xx status
func (r ServiceResult) IsHealthy() bool {
	return r.Status == CheckStatusHealthy
}

// PollReport aggregates one poll cycle. AllAPIs follows the configured target order.
type PollReport struct {
	CycleID   string          `json:"cycle_id" example:"0b8f3f8e-7c1a-4c7e-9f3e-1f8c2b7d9a10"`
	Timestamp string          `json:"timestamp" example:"2025-11-10T14:30:00.000Z"`
	AllAPIs   []ServiceResult `json:"allApis"`
}

// Healthy returns the number of healthy targets in the report
func (p PollReport) Healthy() int {
	n := 0
	for _, r := range p.AllAPIs {
		if r.IsHealthy() {
			n++
		}
	}
	return n
}

// GreetResult is the outcome of calling one target's hello endpoint
type GreetResult struct {
	API    string          `json:"api" example:"Node.js API"`
	Status string          `json:"status" example:"200"`
	Data   json.RawMessage `json:"data,omitempty" swaggertype:"object"`
	Error  string          `json:"error,omitempty"`
}

// GreetStatusConnectionFailed is reported when no response was received
const GreetStatusConnectionFailed = "Connection failed"
