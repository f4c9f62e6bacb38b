package validators

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DefaultName is substituted whenever a greeting name is absent or blank
const DefaultName = "World"

// Semantic versioning regex (basic)
var semverRegex = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// GreetingName returns the name to greet.
// Non-blank names are returned unchanged; blank or missing names become DefaultName.
func GreetingName(name string) string {
	if strings.TrimSpace(name) == "" {
		return DefaultName
	}
	return name
}

// Target is a named backend whose health the dashboard polls
type Target struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ParseTargets parses entries of the form "name=url"
func ParseTargets(entries []string) ([]Target, error) {
	targets := make([]Target, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		target, err := ParseTarget(entry)
		if err != nil {
			return nil, err
		}

		key := strings.ToLower(target.Name)
		if _, ok := seen[key]; ok {
			return nil, NewValidationError("targets", fmt.Sprintf("duplicate target name %q", target.Name))
		}
		seen[key] = struct{}{}

		targets = append(targets, target)
	}

	if len(targets) == 0 {
		return nil, NewValidationError("targets", "at least one target is required")
	}

	return targets, nil
}

// ParseTarget parses a single "name=url" entry
func ParseTarget(entry string) (Target, error) {
	name, rawURL, ok := strings.Cut(entry, "=")
	if !ok {
		return Target{}, NewValidationError("targets", fmt.Sprintf("invalid target %q (expected: name=url)", entry))
	}

	name = strings.TrimSpace(name)
	if err := ValidateTargetName(name, "targets"); err != nil {
		return Target{}, err
	}

	normalized, err := NormalizeTargetURL(rawURL)
	if err != nil {
		return Target{}, err
	}

	return Target{Name: name, URL: normalized}, nil
}

// ValidateTargetName validates target name constraints
func ValidateTargetName(name string, fieldName string) error {
	if name == "" {
		return NewValidationError(fieldName, "target name is required")
	}
	return ValidateStringLength(name, fieldName, 1, 100)
}

// NormalizeTargetURL validates an absolute http(s) base URL and strips any trailing slash
func NormalizeTargetURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", NewValidationError("url", "target URL is required")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", NewValidationError("url", fmt.Sprintf("invalid target URL %q: %v", rawURL, err))
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", NewValidationError("url", fmt.Sprintf("target URL %q must use http or https", rawURL))
	}

	if u.Host == "" {
		return "", NewValidationError("url", fmt.Sprintf("target URL %q has no host", rawURL))
	}

	if u.RawQuery != "" || u.Fragment != "" {
		return "", NewValidationError("url", fmt.Sprintf("target URL %q must not contain a query or fragment", rawURL))
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// IsValidSemanticVersion checks if the string follows semantic versioning
// Format: MAJOR.MINOR.PATCH or MAJOR.MINOR.PATCH-prerelease+build
// Examples: 1.0.0, 2.1.3-beta, 1.0.0-alpha+001
func IsValidSemanticVersion(version string) bool {
	if version == "" {
		return false
	}
	return semverRegex.MatchString(version)
}

// ValidateServiceVersion validates the advertised service version
func ValidateServiceVersion(version string, fieldName string) error {
	if version == "" {
		return NewValidationError(fieldName, "version is required")
	}
	if !IsValidSemanticVersion(version) {
		return NewValidationError(fieldName, "invalid semantic version format (expected: MAJOR.MINOR.PATCH)")
	}
	return nil
}

// ValidateStringLength validates string length constraints
func ValidateStringLength(value string, fieldName string, minLength, maxLength int) error {
	length := len(value)
	if minLength > 0 && length < minLength {
		return NewValidationError(fieldName, fmt.Sprintf("must be at least %d characters (got: %d)", minLength, length))
	}
	if maxLength > 0 && length > maxLength {
		return NewValidationError(fieldName, fmt.Sprintf("must be at most %d characters (got: %d)", maxLength, length))
	}
	return nil
}
