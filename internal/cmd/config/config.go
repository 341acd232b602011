// Package config provides CLI commands for managing specchio configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	appconfig "github.com/davoli/specchio/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or manage specchio configuration",
	Long: `View or manage specchio configuration.

Use 'config show' to display the effective configuration, 'config init'
to create a commented default config file, and 'config path' to see
where the config file is looked for.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration as YAML, after merging defaults,
the config file, SPECCHIO_* environment variables, and flags.`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a commented default config file at ~/.config/specchio/config.yaml.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file locations",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

// Register adds the config command tree to the given parent command.
func Register(parent *cobra.Command) {
	parent.AddCommand(configCmd)
}

// effectiveConfig is the YAML view of the merged configuration. Field order
// follows the config file layout.
type effectiveConfig struct {
	Mirrors struct {
		URL            string `yaml:"url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		Platform       string `yaml:"platform"`
	} `yaml:"mirrors"`
	Filter struct {
		Countries   []string `yaml:"countries"`
		Protocols   []string `yaml:"protocols"`
		MaxAgeHours float64  `yaml:"max_age_hours"`
		Match       string   `yaml:"match"`
		NoMatch     string   `yaml:"nomatch"`
		Complete    bool     `yaml:"complete"`
		Active      bool     `yaml:"active"`
		IPv4        bool     `yaml:"ipv4"`
		IPv6        bool     `yaml:"ipv6"`
		ISOs        bool     `yaml:"isos"`
	} `yaml:"filter"`
	Sort struct {
		Keys    []string `yaml:"keys"`
		Reverse bool     `yaml:"reverse"`
	} `yaml:"sort"`
	Output struct {
		Limit  int    `yaml:"limit"`
		Header bool   `yaml:"header"`
		File   string `yaml:"file"`
	} `yaml:"output"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := appconfig.Load()
	if err != nil {
		return err
	}

	var out effectiveConfig
	out.Mirrors.URL = cfg.Mirrors.URL
	out.Mirrors.TimeoutSeconds = cfg.Mirrors.TimeoutSeconds
	out.Mirrors.Platform = cfg.Mirrors.Platform
	out.Filter.Countries = cfg.Filter.Countries
	out.Filter.Protocols = cfg.Filter.Protocols
	out.Filter.MaxAgeHours = cfg.Filter.MaxAgeHours
	out.Filter.Match = cfg.Filter.Match
	out.Filter.NoMatch = cfg.Filter.NoMatch
	out.Filter.Complete = cfg.Filter.Complete
	out.Filter.Active = cfg.Filter.Active
	out.Filter.IPv4 = cfg.Filter.IPv4
	out.Filter.IPv6 = cfg.Filter.IPv6
	out.Filter.ISOs = cfg.Filter.ISOs
	out.Sort.Keys = cfg.Sort.Keys
	out.Sort.Reverse = cfg.Sort.Reverse
	out.Output.Limit = cfg.Output.Limit
	out.Output.Header = cfg.Output.Header
	out.Output.File = cfg.Output.File
	out.Logging.Level = cfg.Logging.Level

	data, err := yaml.Marshal(&out)
	if err != nil {
		return err
	}

	if file := viper.ConfigFileUsed(); file != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "# config file: %s\n", file)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "# no config file found, showing defaults and overrides")
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

// defaultConfigTemplate is the commented config file written by init.
const defaultConfigTemplate = `# specchio configuration
# Flags override environment variables (SPECCHIO_*), which override this file.

mirrors:
  # Override the platform's mirror status feed URL. Empty = platform default.
  url: ""
  # Feed download timeout.
  timeout_seconds: 30
  # Target platform: archlinux or archlinuxarm. Empty = detect.
  platform: ""

filter:
  # Restrict to countries by name or ISO code, e.g. [germany, FR].
  countries: []
  # Restrict to protocols: https, http, rsync.
  protocols: []
  # Drop mirrors that synced longer ago than this many hours. 0 = no limit.
  max_age_hours: 0
  # Keep only URLs matching this regex (anchored at the start).
  match: ""
  # Drop URLs matching this regex (anchored at the start).
  nomatch: ""
  # Keep only fully synced mirrors.
  complete: false
  # Keep only mirrors flagged active.
  active: false
  ipv4: false
  ipv6: false
  # Keep only mirrors hosting installation images.
  isos: false

sort:
  # Sort keys, applied in order. See: specchio sortkeys
  keys: [score]
  reverse: false

output:
  # Maximum number of mirrors. 0 = unlimited.
  limit: 0
  # Prepend a generated-by comment block.
  header: false
  # Write to this file instead of stdout.
  file: ""

logging:
  # Minimum level for diagnostics on stderr: debug, info, warn, error.
  level: warn
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := appconfig.ConfigFile()

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	if file := viper.ConfigFileUsed(); file != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (in use)\n", file)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "search order:")
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", appconfig.ConfigFile())
	fmt.Fprintln(cmd.OutOrStdout(), "  $HOME/.config/specchio/config.yaml")
	fmt.Fprintln(cmd.OutOrStdout(), "  ./config.yaml")
	return nil
}
