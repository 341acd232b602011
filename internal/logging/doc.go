// Package logging provides structured logging for specchio commands.
//
// This package wraps Go's log/slog so commands get leveled, attribute-carrying
// loggers without depending on slog directly. Loggers write human-readable
// text when stderr is a terminal and JSON when output is redirected, so the
// same invocation works interactively and inside scripts.
//
// # Features
//
//   - Structured logging via slog with terminal-aware formatting
//   - Configurable log levels (DEBUG, INFO, WARN, ERROR)
//   - Context propagation (component, platform)
//   - Optional file-backed logging with size-based rotation
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. The [Logger] type
// uses Go's slog internally which is designed for concurrent access. The
// [RotatingWriter] type uses a mutex to protect file operations during
// rotation. Child loggers created via With* methods share the underlying
// writer safely.
//
// # Basic Usage
//
// Create a logger on stderr:
//
//	logger := logging.NewLogger(os.Stderr, "INFO")
//
//	logger.Debug("decoded status feed", "mirrors", 812)
//	logger.Info("wrote mirror list", "path", "/etc/pacman.d/mirrorlist")
//	logger.Warn("skipping mirror without URL")
//	logger.Error("request failed", "error", err.Error())
//
// # Context Propagation
//
// Create child loggers with persistent context attributes:
//
//	statusLogger := logger.WithComponent("status")
//	armLogger := statusLogger.WithPlatform("archlinuxarm")
//
//	// All logs from armLogger include component and platform
//	armLogger.Debug("fetching status feed", "url", url)
//
// # File Logging
//
// Commands that own the terminal, such as the browse TUI, log to a file
// instead of stderr:
//
//	logger, err := logging.NewFileLogger(path, "DEBUG", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
// Rotated files are named debug.log.1, debug.log.2, etc., where .1 is the
// most recent backup. When compression is enabled, rotated files become
// debug.log.1.gz, etc.
//
// # Testing
//
// For testing, use [NopLogger] to discard all log output:
//
//	func TestSomething(t *testing.T) {
//	    logger := logging.NopLogger()
//	    // Use logger in tests without touching stderr
//	}
//
// # Configuration
//
// The logging system is typically configured via specchio's config file:
//
//	logging:
//	  level: info
//	  file: ""
//	  max_size_mb: 5
//	  max_backups: 2
package logging
