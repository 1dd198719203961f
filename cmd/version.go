package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/gengoka/internal/learning"
	"github.com/abhisek/gengoka/internal/store"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "gengoka", version)
		fmt.Fprintf(cmd.OutOrStdout(), "schema v%d, bundle format %s\n", store.CurrentSchemaVersion, learning.BundleVersion)
	},
}
