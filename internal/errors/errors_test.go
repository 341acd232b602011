package errors

import (
	"fmt"
	"testing"
)

// -----------------------------------------------------------------------------
// StatusError Tests
// -----------------------------------------------------------------------------

func TestNewStatusError(t *testing.T) {
	cause := New("connection refused")
	err := NewStatusError("request failed", cause)

	if err.message != "request failed" {
		t.Errorf("message = %q, want %q", err.message, "request failed")
	}
	if err.cause != cause {
		t.Errorf("cause = %v, want %v", err.cause, cause)
	}
	if !err.IsRetryable() {
		t.Error("IsRetryable() = false, want true")
	}
}

func TestStatusError_WithMethods(t *testing.T) {
	err := NewStatusError("test", nil).
		WithURL("https://example.com/status/json/").
		WithHTTPStatus(503)

	if err.URL != "https://example.com/status/json/" {
		t.Errorf("URL = %q, want %q", err.URL, "https://example.com/status/json/")
	}
	if err.HTTPStatus != 503 {
		t.Errorf("HTTPStatus = %d, want %d", err.HTTPStatus, 503)
	}
	if !err.IsRetryable() {
		t.Error("IsRetryable() = false, want true for 5xx")
	}
}

func TestStatusError_ClientErrorNotRetryable(t *testing.T) {
	err := NewStatusError("test", nil).WithHTTPStatus(404)

	if err.IsRetryable() {
		t.Error("IsRetryable() = true, want false for 4xx")
	}
}

func TestStatusError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StatusError
		want string
	}{
		{
			name: "basic error",
			err:  NewStatusError("request failed", nil),
			want: "status error: request failed",
		},
		{
			name: "with cause",
			err:  NewStatusError("request failed", New("timeout")),
			want: "status error: request failed: timeout",
		},
		{
			name: "with url",
			err:  NewStatusError("request failed", nil).WithURL("https://a.example/json/"),
			want: "status error [url=https://a.example/json/]: request failed",
		},
		{
			name: "with url and http status",
			err: NewStatusError("unexpected response", nil).
				WithURL("https://a.example/json/").WithHTTPStatus(502),
			want: "status error [url=https://a.example/json/, http=502]: unexpected response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusError_Is(t *testing.T) {
	err := NewStatusError("test", nil).WithURL("https://a.example/")

	// Should match StatusError type
	if !Is(err, &StatusError{}) {
		t.Error("Is(StatusError{}) = false, want true")
	}

	// Should match the availability sentinel
	if !Is(err, ErrStatusUnavailable) {
		t.Error("Is(ErrStatusUnavailable) = false, want true")
	}

	// Should not match unrelated errors
	if Is(err, ErrNoMirrors) {
		t.Error("Is(ErrNoMirrors) = true, want false")
	}
}

func TestStatusError_Unwrap(t *testing.T) {
	cause := New("decode failed")
	err := NewStatusError("test", cause)

	if unwrapped := Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

// -----------------------------------------------------------------------------
// OutputError Tests
// -----------------------------------------------------------------------------

func TestOutputError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *OutputError
		want string
	}{
		{
			name: "basic error",
			err:  NewOutputError("cannot write mirror list", nil),
			want: "output error: cannot write mirror list",
		},
		{
			name: "with path",
			err: NewOutputError("cannot write mirror list", nil).
				WithPath("/etc/pacman.d/mirrorlist"),
			want: "output error [path=/etc/pacman.d/mirrorlist]: cannot write mirror list",
		},
		{
			name: "with path and cause",
			err: NewOutputError("cannot write mirror list", New("permission denied")).
				WithPath("/etc/pacman.d/mirrorlist"),
			want: "output error [path=/etc/pacman.d/mirrorlist]: cannot write mirror list: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutputError_Is(t *testing.T) {
	cause := New("disk full")
	err := NewOutputError("write failed", cause).WithPath("/tmp/mirrorlist")

	if !Is(err, &OutputError{}) {
		t.Error("Is(OutputError{}) = false, want true")
	}
	if !Is(err, cause) {
		t.Error("Is(cause) = false, want true")
	}
}

// -----------------------------------------------------------------------------
// PlatformError Tests
// -----------------------------------------------------------------------------

func TestNewPlatformError(t *testing.T) {
	err := NewPlatformError("archlinuxarm")

	if err.Platform != "archlinuxarm" {
		t.Errorf("Platform = %q, want %q", err.Platform, "archlinuxarm")
	}
	want := `platform error: no status backend for "archlinuxarm"`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrNotImplemented) {
		t.Error("Is(ErrNotImplemented) = false, want true")
	}
}

// -----------------------------------------------------------------------------
// ValidationError Tests
// -----------------------------------------------------------------------------

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "basic error",
			err:  NewValidationError("unknown sort key"),
			want: "validation error: unknown sort key",
		},
		{
			name: "with field",
			err:  NewValidationError("unknown sort key").WithField("sort.keys"),
			want: "validation error [field=sort.keys]: unknown sort key",
		},
		{
			name: "with field and value",
			err: NewValidationError("limit must be positive").
				WithField("output.limit").WithValue(-3),
			want: "validation error [field=output.limit, value=-3]: limit must be positive",
		},
		{
			name: "with cause",
			err: NewValidationError("bad pattern").
				WithField("filter.match").WithCause(New("missing closing )")),
			want: "validation error [field=filter.match]: bad pattern: missing closing )",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationError_Is(t *testing.T) {
	err := NewValidationError("bad value").WithField("filter.max_age_hours")

	if !Is(err, &ValidationError{}) {
		t.Error("Is(ValidationError{}) = false, want true")
	}
	if !Is(err, ErrInvalidInput) {
		t.Error("Is(ErrInvalidInput) = false, want true")
	}
	if Is(err, ErrNoMirrors) {
		t.Error("Is(ErrNoMirrors) = true, want false")
	}
}

// -----------------------------------------------------------------------------
// Classification Tests
// -----------------------------------------------------------------------------

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"plain error", New("something"), false},
		{"status error", NewStatusError("fetch failed", nil), true},
		{"status error 4xx", NewStatusError("fetch failed", nil).WithHTTPStatus(403), false},
		{"output error", NewOutputError("write failed", nil), false},
		{"wrapped status error", fmt.Errorf("outer: %w", NewStatusError("inner", nil)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitOK},
		{"plain error", New("boom"), ExitFailure},
		{"no mirrors", ErrNoMirrors, ExitFailure},
		{"not implemented", ErrNotImplemented, ExitUnsupported},
		{"platform error", NewPlatformError("archlinuxarm"), ExitUnsupported},
		{"wrapped not implemented", Wrap(ErrNotImplemented, "selecting backend"), ExitUnsupported},
		{"status error", NewStatusError("fetch failed", nil), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// Wrap Tests
// -----------------------------------------------------------------------------

func TestWrap(t *testing.T) {
	base := New("base error")

	wrapped := Wrap(base, "context")
	if wrapped.Error() != "context: base error" {
		t.Errorf("Wrap() = %q, want %q", wrapped.Error(), "context: base error")
	}
	if !Is(wrapped, base) {
		t.Error("wrapped error should match base")
	}

	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestWrapf(t *testing.T) {
	base := New("base error")

	wrapped := Wrapf(base, "fetching %s", "https://a.example/")
	want := "fetching https://a.example/: base error"
	if wrapped.Error() != want {
		t.Errorf("Wrapf() = %q, want %q", wrapped.Error(), want)
	}

	if Wrapf(nil, "fetching %s", "x") != nil {
		t.Error("Wrapf(nil) should return nil")
	}
}
