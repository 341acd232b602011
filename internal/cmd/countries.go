package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/davoli/specchio/internal/config"
	"github.com/davoli/specchio/internal/logging"
	"github.com/davoli/specchio/internal/mirror"
	"github.com/davoli/specchio/internal/pipeline"
	"github.com/spf13/cobra"
)

var countriesReverse bool

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List countries with at least one mirror",
	Long: `List every country advertised by the mirror status feed, one per line
as "Name (CC)". The listing works on the unfiltered feed, so it shows
everything you could pass to --countries.`,
	RunE: runCountries,
}

func init() {
	rootCmd.AddCommand(countriesCmd)

	countriesCmd.Flags().BoolVarP(&countriesReverse, "reverse", "r", false, "reverse the listing")
}

func runCountries(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(os.Stderr, effectiveLogLevel(cfg))

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}

	status, err := p.Fetch(cmd.Context())
	if err != nil {
		return err
	}

	countries := mirror.Countries(mirror.Prepare(status.URLs, logger))
	if countriesReverse {
		slices.Reverse(countries)
	}

	for _, c := range countries {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", c.Name, c.Code)
	}
	return nil
}
