package models

import "encoding/json"

// HealthStatus represents the response structure for liveness endpoints
type HealthStatus struct {
	Status    string  `json:"status" example:"healthy"`
	Timestamp string  `json:"timestamp" example:"2025-11-10T14:30:00.000Z"`
	Uptime    float64 `json:"uptime,omitempty" example:"42.5"` // seconds since process start
	Version   string  `json:"version,omitempty" example:"1.0.0"`
	Service   string  `json:"service,omitempty" example:"Go Hello World API"`
}

// HealthStatusHealthy is the only status a liveness probe reports
const HealthStatusHealthy = "healthy"

// HelloResponse is the payload returned by the greeting endpoints
type HelloResponse struct {
	Message    string `json:"message" example:"Hello, World!"`
	Version    string `json:"version" example:"1.0.0"`
	Timestamp  string `json:"timestamp" example:"2025-11-10T14:30:00.000Z"`
	Technology string `json:"technology" example:"Go + Gin"`

	// Received echoes the parsed POST body; omitted for GET requests
	Received json.RawMessage `json:"received,omitempty" swaggertype:"object"`
}

// HelloRequest documents the POST /api/hello body. Unknown fields are ignored.
type HelloRequest struct {
	Name string `json:"name,omitempty" example:"Ada"`
}

// ServiceInfo is returned by the root endpoint
type ServiceInfo struct {
	Service    string   `json:"service" example:"Go Hello World API"`
	Version    string   `json:"version" example:"1.0.0"`
	Technology string   `json:"technology" example:"Go + Gin"`
	Timestamp  string   `json:"timestamp" example:"2025-11-10T14:30:00.000Z"`
	Endpoints  []string `json:"endpoints"`
}

// AppInfo describes the application and its endpoints in structured form
type AppInfo struct {
	Application  string         `json:"application"`
	Version      string         `json:"version"`
	Environment  string         `json:"environment"`
	Technologies []string       `json:"technologies"`
	Description  string         `json:"description"`
	Endpoints    []EndpointInfo `json:"endpoints"`
}

// EndpointInfo describes a single route
type EndpointInfo struct {
	Path        string `json:"path"`
	Method      string `json:"method"`
	Description string `json:"description"`
}

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error   string `json:"error" example:"Not Found"`
	Message string `json:"message" example:"The requested resource was not found"`
	Path    string `json:"path,omitempty" example:"/nope"`
}
