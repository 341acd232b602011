package cmd

import (
	"fmt"
	"slices"

	"github.com/davoli/specchio/internal/sorting"
	"github.com/spf13/cobra"
)

var sortkeysReverse bool

var sortkeysCmd = &cobra.Command{
	Use:   "sortkeys",
	Short: "List the available sort keys",
	RunE:  runSortkeys,
}

func init() {
	rootCmd.AddCommand(sortkeysCmd)

	sortkeysCmd.Flags().BoolVarP(&sortkeysReverse, "reverse", "r", false, "reverse the listing")
}

func runSortkeys(cmd *cobra.Command, args []string) error {
	keys := sorting.Keys()
	if sortkeysReverse {
		slices.Reverse(keys)
	}

	for _, key := range keys {
		fmt.Fprintln(cmd.OutOrStdout(), key)
	}
	return nil
}
