package config

import (
	"strings"
	"testing"
)

func TestValidateAcceptsDefaults(t *testing.T) {
	if errs := Default().Validate(); len(errs) != 0 {
		t.Errorf("Validate() on defaults = %v, want no errors", errs)
	}
}

func TestValidateMirrors(t *testing.T) {
	tests := []struct {
		name      string
		cfg       MirrorsConfig
		wantField string
	}{
		{"valid", MirrorsConfig{TimeoutSeconds: 30}, ""},
		{"negative timeout", MirrorsConfig{TimeoutSeconds: -1}, "mirrors.timeout_seconds"},
		{"known platform", MirrorsConfig{Platform: "archlinux"}, ""},
		{"platform case insensitive", MirrorsConfig{Platform: "ArchLinuxARM"}, ""},
		{"unknown platform", MirrorsConfig{Platform: "gentoo"}, "mirrors.platform"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Mirrors = tt.cfg
			assertValidation(t, cfg.Validate(), tt.wantField)
		})
	}
}

func TestValidateFilter(t *testing.T) {
	tests := []struct {
		name      string
		cfg       FilterConfig
		wantField string
	}{
		{"empty", FilterConfig{}, ""},
		{"negative max age", FilterConfig{MaxAgeHours: -2}, "filter.max_age_hours"},
		{"valid match", FilterConfig{Match: "https://.*\\.de"}, ""},
		{"broken match", FilterConfig{Match: "(["}, "filter.match"},
		{"broken nomatch", FilterConfig{NoMatch: "*oops"}, "filter.nomatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Filter = tt.cfg
			assertValidation(t, cfg.Validate(), tt.wantField)
		})
	}
}

func TestValidateOutput(t *testing.T) {
	cfg := Default()
	cfg.Output.Limit = -5
	assertValidation(t, cfg.Validate(), "output.limit")

	cfg.Output.Limit = 0
	assertValidation(t, cfg.Validate(), "")
}

func TestValidateLogging(t *testing.T) {
	tests := []struct {
		level     string
		wantField string
	}{
		{"debug", ""},
		{"INFO", ""},
		{"", ""},
		{"trace", "logging.level"},
	}

	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			cfg := Default()
			cfg.Logging.Level = tt.level
			assertValidation(t, cfg.Validate(), tt.wantField)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Mirrors.TimeoutSeconds = -1
	cfg.Filter.Match = "(["
	cfg.Output.Limit = -1
	cfg.Logging.Level = "loud"

	errs := cfg.Validate()
	if len(errs) != 4 {
		t.Errorf("Validate() returned %d errors, want 4: %v", len(errs), errs)
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "output.limit", Value: -1, Message: "must not be negative"},
		{Field: "logging.level", Value: "loud", Message: "must be one of: debug, info, warn, error"},
	}

	msg := errs.Error()
	if !strings.HasPrefix(msg, "2 validation errors:") {
		t.Errorf("Error() = %q, want count prefix", msg)
	}
	if !strings.Contains(msg, "output.limit") || !strings.Contains(msg, "logging.level") {
		t.Errorf("Error() = %q, want both fields mentioned", msg)
	}

	single := ValidationErrors{errs[0]}
	if single.Error() != errs[0].Error() {
		t.Errorf("single-error Error() = %q, want %q", single.Error(), errs[0].Error())
	}
}

// assertValidation fails the test when the errors do not match expectations:
// wantField empty means no errors expected, otherwise exactly one error for
// that field.
func assertValidation(t *testing.T, errs []ValidationError, wantField string) {
	t.Helper()

	if wantField == "" {
		if len(errs) != 0 {
			t.Errorf("Validate() = %v, want no errors", errs)
		}
		return
	}

	if len(errs) != 1 {
		t.Fatalf("Validate() = %v, want exactly one error for %s", errs, wantField)
	}
	if errs[0].Field != wantField {
		t.Errorf("Validate() error field = %q, want %q", errs[0].Field, wantField)
	}
}
