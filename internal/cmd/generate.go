package cmd

import (
	"os"

	"github.com/davoli/specchio/internal/config"
	"github.com/davoli/specchio/internal/logging"
	"github.com/davoli/specchio/internal/mirrorlist"
	"github.com/davoli/specchio/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate a pacman mirror list",
	Long: `Generate a pacman mirror list from the Arch Linux mirror status feed.

The feed is downloaded, filtered and sorted according to your flags and
config file, and rendered as Server lines to stdout or a file.

Examples:
  # The 10 best-scored German https mirrors
  specchio generate -c germany -p https -s score -l 10

  # Fresh mirrors only, straight into pacman's mirrorlist
  specchio generate -a 2 -t -u -o /etc/pacman.d/mirrorlist

  # Everything in France or Germany, newest first, with a header
  specchio generate -c fr -c de -s age -H`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	flags := generateCmd.Flags()
	flags.StringSliceP("countries", "c", nil, "restrict to countries (name or ISO code)")
	flags.StringSliceP("protocols", "p", nil, "restrict to protocols (https, http, rsync)")
	flags.Float64P("max-age", "a", 0, "maximum hours since last sync (0 = no limit)")
	flags.StringP("match", "m", "", "keep only URLs matching this regex")
	flags.StringP("nomatch", "n", "", "drop URLs matching this regex")
	flags.BoolP("complete", "t", false, "only fully synced mirrors")
	flags.BoolP("active", "u", false, "only active mirrors")
	flags.BoolP("ipv4", "4", false, "only mirrors reachable over IPv4")
	flags.BoolP("ipv6", "6", false, "only mirrors reachable over IPv6")
	flags.BoolP("isos", "i", false, "only mirrors hosting installation images")
	flags.StringSliceP("sort", "s", nil, "sort keys, applied in order (see: specchio sortkeys)")
	flags.BoolP("reverse", "r", false, "reverse the sort order")
	flags.IntP("limit", "l", 0, "maximum number of mirrors (0 = unlimited)")
	flags.BoolP("header", "H", false, "prepend a generated-by header")
	flags.StringP("output", "o", "", "write to this file instead of stdout")
	flags.String("url", "", "override the mirror status feed URL")
	flags.String("platform", "", "target platform (archlinux, archlinuxarm)")
}

// bindGenerateFlags maps generate's flags onto config keys, so flags
// override config file values field-wise via viper. Called from initConfig
// on every run.
func bindGenerateFlags() {
	flags := generateCmd.Flags()
	_ = viper.BindPFlag("filter.countries", flags.Lookup("countries"))
	_ = viper.BindPFlag("filter.protocols", flags.Lookup("protocols"))
	_ = viper.BindPFlag("filter.max_age_hours", flags.Lookup("max-age"))
	_ = viper.BindPFlag("filter.match", flags.Lookup("match"))
	_ = viper.BindPFlag("filter.nomatch", flags.Lookup("nomatch"))
	_ = viper.BindPFlag("filter.complete", flags.Lookup("complete"))
	_ = viper.BindPFlag("filter.active", flags.Lookup("active"))
	_ = viper.BindPFlag("filter.ipv4", flags.Lookup("ipv4"))
	_ = viper.BindPFlag("filter.ipv6", flags.Lookup("ipv6"))
	_ = viper.BindPFlag("filter.isos", flags.Lookup("isos"))
	_ = viper.BindPFlag("sort.keys", flags.Lookup("sort"))
	_ = viper.BindPFlag("sort.reverse", flags.Lookup("reverse"))
	_ = viper.BindPFlag("output.limit", flags.Lookup("limit"))
	_ = viper.BindPFlag("output.header", flags.Lookup("header"))
	_ = viper.BindPFlag("output.file", flags.Lookup("output"))
	_ = viper.BindPFlag("mirrors.url", flags.Lookup("url"))
	_ = viper.BindPFlag("mirrors.platform", flags.Lookup("platform"))
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(os.Stderr, effectiveLogLevel(cfg))

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}

	result, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}

	renderer := mirrorlist.NewRenderer(cfg.Output.Header, pipeline.Summary(cfg), logger)
	lines := renderer.Lines(result.Mirrors)

	if cfg.Output.File != "" {
		return mirrorlist.WriteFile(cfg.Output.File, lines)
	}
	return mirrorlist.Print(cmd.OutOrStdout(), lines)
}
