// Package config provides layered configuration for specchio. Values come
// from built-in defaults, the config file, SPECCHIO_* environment variables,
// and CLI flags, in increasing order of precedence. Viper owns the merging;
// this package defines the typed view of it plus validation.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the complete specchio configuration.
type Config struct {
	Mirrors MirrorsConfig `mapstructure:"mirrors"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Sort    SortConfig    `mapstructure:"sort"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// MirrorsConfig controls where the mirror status feed comes from.
type MirrorsConfig struct {
	// URL overrides the platform's status feed URL. Empty means the
	// platform default.
	URL string `mapstructure:"url"`
	// TimeoutSeconds bounds a single feed download.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// Platform selects the target platform. Empty means detect from the
	// machine architecture.
	Platform string `mapstructure:"platform"`
}

// FilterConfig holds the mirror selection criteria.
type FilterConfig struct {
	// Countries restricts mirrors to the given countries, by name or ISO
	// code, case-insensitively.
	Countries []string `mapstructure:"countries"`
	// Protocols restricts mirrors to the given protocols (https, http,
	// rsync).
	Protocols []string `mapstructure:"protocols"`
	// MaxAgeHours drops mirrors that synced longer ago. Zero disables the
	// age limit.
	MaxAgeHours float64 `mapstructure:"max_age_hours"`
	// Match keeps only mirrors whose URL matches this regular expression,
	// anchored at the start of the URL.
	Match string `mapstructure:"match"`
	// NoMatch drops mirrors whose URL matches this regular expression,
	// anchored at the start of the URL.
	NoMatch string `mapstructure:"nomatch"`
	// Complete keeps only fully synced mirrors.
	Complete bool `mapstructure:"complete"`
	// Active keeps only mirrors the status service flags active.
	Active bool `mapstructure:"active"`
	// IPv4 keeps only mirrors reachable over IPv4.
	IPv4 bool `mapstructure:"ipv4"`
	// IPv6 keeps only mirrors reachable over IPv6.
	IPv6 bool `mapstructure:"ipv6"`
	// ISOs keeps only mirrors that host installation images.
	ISOs bool `mapstructure:"isos"`
}

// SortConfig controls the ordering of the generated list.
type SortConfig struct {
	// Keys are the sort keys, applied in order; later keys break ties.
	Keys []string `mapstructure:"keys"`
	// Reverse flips the overall ordering.
	Reverse bool `mapstructure:"reverse"`
}

// OutputConfig controls rendering of the mirror list.
type OutputConfig struct {
	// Limit caps the number of rendered mirrors. Zero means unlimited.
	Limit int `mapstructure:"limit"`
	// Header prepends a generated-by comment block to the list.
	Header bool `mapstructure:"header"`
	// File is the output path. Empty means stdout.
	File string `mapstructure:"file"`
}

// LoggingConfig controls diagnostic output on stderr.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `mapstructure:"level"`
}

// Default returns the configuration used when no file, environment variable,
// or flag overrides a value.
func Default() *Config {
	return &Config{
		Mirrors: MirrorsConfig{
			TimeoutSeconds: 30,
		},
		Sort: SortConfig{
			Keys: []string{"score"},
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// SetDefaults registers the default configuration with viper so every value
// is resolvable even without a config file.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("mirrors.url", defaults.Mirrors.URL)
	viper.SetDefault("mirrors.timeout_seconds", defaults.Mirrors.TimeoutSeconds)
	viper.SetDefault("mirrors.platform", defaults.Mirrors.Platform)

	viper.SetDefault("filter.countries", defaults.Filter.Countries)
	viper.SetDefault("filter.protocols", defaults.Filter.Protocols)
	viper.SetDefault("filter.max_age_hours", defaults.Filter.MaxAgeHours)
	viper.SetDefault("filter.match", defaults.Filter.Match)
	viper.SetDefault("filter.nomatch", defaults.Filter.NoMatch)
	viper.SetDefault("filter.complete", defaults.Filter.Complete)
	viper.SetDefault("filter.active", defaults.Filter.Active)
	viper.SetDefault("filter.ipv4", defaults.Filter.IPv4)
	viper.SetDefault("filter.ipv6", defaults.Filter.IPv6)
	viper.SetDefault("filter.isos", defaults.Filter.ISOs)

	viper.SetDefault("sort.keys", defaults.Sort.Keys)
	viper.SetDefault("sort.reverse", defaults.Sort.Reverse)

	viper.SetDefault("output.limit", defaults.Output.Limit)
	viper.SetDefault("output.header", defaults.Output.Header)
	viper.SetDefault("output.file", defaults.Output.File)

	viper.SetDefault("logging.level", defaults.Logging.Level)
}

// Load reads the configuration from viper into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "specchio")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".specchio"
	}
	return filepath.Join(home, ".config", "specchio")
}

// ConfigFile returns the path to the config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
