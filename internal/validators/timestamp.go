package validators

import (
	"fmt"
	"strings"
	"time"
)

// UTC timestamp formats
const (
	// ISO8601 format with Z suffix
	ISO8601UTC = "2006-01-02T15:04:05Z"

	// ISO8601 with milliseconds, the format used in every response body
	ISO8601UTCMillis = "2006-01-02T15:04:05.000Z"
)

var utcFormats = []string{
	ISO8601UTCMillis,
	ISO8601UTC,
	time.RFC3339Nano,
}

// IsValidUTCTimestamp checks if the timestamp string is valid UTC format
// Accepts: 2025-11-10T14:30:00Z or 2025-11-10T14:30:00.123Z
func IsValidUTCTimestamp(timestamp string) bool {
	if timestamp == "" {
		return false
	}

	// Must end with 'Z' to indicate UTC
	if !strings.HasSuffix(timestamp, "Z") {
		return false
	}

	for _, format := range utcFormats {
		if _, err := time.Parse(format, timestamp); err == nil {
			return true
		}
	}

	return false
}

// ParseUTCTimestamp parses UTC timestamp string to time.Time
// Returns time in UTC timezone
func ParseUTCTimestamp(timestamp string) (time.Time, error) {
	if timestamp == "" {
		return time.Time{}, NewValidationError("timestamp", "timestamp is required")
	}

	if !IsValidUTCTimestamp(timestamp) {
		return time.Time{}, NewValidationError("timestamp", fmt.Sprintf("invalid UTC timestamp format: %s", timestamp))
	}

	for _, format := range utcFormats {
		if t, err := time.Parse(format, timestamp); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, NewValidationError("timestamp", fmt.Sprintf("invalid UTC timestamp format: %s", timestamp))
}

// FormatUTCTimestamp formats time.Time to UTC ISO 8601 with milliseconds
// Always returns format: 2025-11-10T14:30:00.000Z
func FormatUTCTimestamp(t time.Time) string {
	return t.UTC().Format(ISO8601UTCMillis)
}
