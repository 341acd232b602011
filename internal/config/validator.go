package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/davoli/specchio/internal/logging"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string // The config field path (e.g., "output.limit")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels, lowercased the way
// config files spell them.
func ValidLogLevels() []string {
	levels := logging.ValidLevels()
	out := make([]string, len(levels))
	for i, level := range levels {
		out[i] = strings.ToLower(level)
	}
	return out
}

// ValidPlatforms returns the list of recognized platform names.
func ValidPlatforms() []string {
	return []string{"archlinux", "archlinuxarm"}
}

// Validate checks the Config for invalid values and returns all validation
// errors found, not just the first.
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateMirrors()...)
	errors = append(errors, c.validateFilter()...)
	errors = append(errors, c.validateOutput()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateMirrors() []ValidationError {
	var errors []ValidationError

	if c.Mirrors.TimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "mirrors.timeout_seconds",
			Value:   c.Mirrors.TimeoutSeconds,
			Message: "must not be negative",
		})
	}

	if c.Mirrors.Platform != "" && !slices.Contains(ValidPlatforms(), strings.ToLower(c.Mirrors.Platform)) {
		errors = append(errors, ValidationError{
			Field:   "mirrors.platform",
			Value:   c.Mirrors.Platform,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidPlatforms(), ", ")),
		})
	}

	return errors
}

func (c *Config) validateFilter() []ValidationError {
	var errors []ValidationError

	if c.Filter.MaxAgeHours < 0 {
		errors = append(errors, ValidationError{
			Field:   "filter.max_age_hours",
			Value:   c.Filter.MaxAgeHours,
			Message: "must not be negative",
		})
	}

	if c.Filter.Match != "" {
		if _, err := regexp.Compile(c.Filter.Match); err != nil {
			errors = append(errors, ValidationError{
				Field:   "filter.match",
				Value:   c.Filter.Match,
				Message: "must be a valid regular expression",
			})
		}
	}

	if c.Filter.NoMatch != "" {
		if _, err := regexp.Compile(c.Filter.NoMatch); err != nil {
			errors = append(errors, ValidationError{
				Field:   "filter.nomatch",
				Value:   c.Filter.NoMatch,
				Message: "must be a valid regular expression",
			})
		}
	}

	return errors
}

func (c *Config) validateOutput() []ValidationError {
	var errors []ValidationError

	if c.Output.Limit < 0 {
		errors = append(errors, ValidationError{
			Field:   "output.limit",
			Value:   c.Output.Limit,
			Message: "must not be negative",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
