package models

import (
	"time"

	"gorm.io/gorm"
)

// ServiceCheck is the outcome of one health probe against one target during one poll cycle.
// All timestamps are stored in UTC.
type ServiceCheck struct {
	// ID is a server-generated UUID
	ID string `gorm:"primaryKey;type:text;not null" json:"id"`

	// CycleID groups the checks produced by the same poll cycle
	CycleID string `gorm:"type:text;not null;index" json:"cycle_id"`

	// Service is the configured target name, e.g. "Node.js API"
	Service string `gorm:"type:text;not null;index" json:"service"`

	URL string `gorm:"type:text;not null" json:"url"`

	// Position is the target's index in the configured list
	Position int `gorm:"not null;default:0" json:"-"`

	// Status is either "healthy" or "error"
	Status string `gorm:"type:text;not null" json:"status"`

	// HTTPStatus is zero when no response was received
	HTTPStatus int `gorm:"not null;default:0" json:"http_status,omitempty"`

	LatencyMs int64 `gorm:"not null;default:0" json:"latency_ms"`

	// Error is the raw error message for failed checks
	Error string `gorm:"type:text" json:"error,omitempty"`

	// Payload is the health response body as returned by the target
	Payload string `gorm:"type:text" json:"payload,omitempty"`

	CheckedAt time.Time `gorm:"type:datetime;not null;index" json:"checked_at"`
}

// TableName overrides the default table name for GORM
func (ServiceCheck) TableName() string {
	return "service_checks"
}

// BeforeCreate is a GORM hook that ensures CheckedAt is set and stored in UTC
func (c *ServiceCheck) BeforeCreate(tx *gorm.DB) error {
	if c.CheckedAt.IsZero() {
		c.CheckedAt = time.Now()
	}
	c.CheckedAt = c.CheckedAt.UTC()
	return nil
}

// Check status constants
const (
	CheckStatusHealthy = "healthy"
	CheckStatusError   = "error"
)

// IsHealthy returns true if the check succeeded
func (c *ServiceCheck) IsHealthy() bool {
	return c.Status == CheckStatusHealthy
}
