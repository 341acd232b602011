package cmd

import (
	"path/filepath"

	"github.com/davoli/specchio/internal/config"
	"github.com/davoli/specchio/internal/logging"
	"github.com/davoli/specchio/internal/tui"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse mirrors interactively",
	Long: `Open an interactive table of the mirrors matching your configuration.

Inside the browser: "/" filters by a glob over URL and country, "s"
cycles the sort key, "r" reverses the order, "R" refetches the feed,
and "q" quits. Edits to the config file are picked up while browsing.`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file instead of stderr.
	logPath := filepath.Join(config.ConfigDir(), "browse.log")
	logger, err := logging.NewFileLogger(logPath, effectiveLogLevel(cfg), logging.DefaultRotationConfig())
	if err != nil {
		logger = logging.NopLogger()
	}
	defer func() { _ = logger.Close() }()

	return tui.Browse(cfg, logger)
}
