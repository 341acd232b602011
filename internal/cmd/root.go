// Package cmd implements the specchio command line interface.
package cmd

import (
	"strings"

	configcmd "github.com/davoli/specchio/internal/cmd/config"
	"github.com/davoli/specchio/internal/config"
	"github.com/davoli/specchio/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "specchio",
	Short: "Arch Linux mirror list optimizer",
	Long: `Specchio downloads the Arch Linux mirror status feed, filters and
sorts the mirrors by your criteria, and renders a pacman mirrorlist.

Use "specchio generate" to produce a mirror list, "specchio countries"
and "specchio sortkeys" to see what you can filter and sort by, and
"specchio browse" for an interactive mirror table.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "f", "", "config file (default is $HOME/.config/specchio/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	configcmd.Register(rootCmd)
}

func initConfig() {
	// Flag bindings live here rather than in init() so they survive a
	// viper.Reset() between test runs.
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	bindGenerateFlags()

	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/specchio")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SPECCHIO")
	// Replace dots with underscores for nested keys in env vars
	// e.g., SPECCHIO_FILTER_COUNTRIES for filter.countries
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// effectiveLogLevel returns the configured log level in canonical form, with
// --verbose forcing debug.
func effectiveLogLevel(cfg *config.Config) string {
	if viper.GetBool("verbose") {
		return logging.LevelDebug
	}
	return logging.ParseLevel(cfg.Logging.Level)
}
