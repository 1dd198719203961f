package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/gengoka/internal/ui/views"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Analyse answer history for habits and recommendations",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		r, err := d.tracker.RequestReport(cmd.Context())
		if err != nil {
			return fmt.Errorf("generate report: %w", err)
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		}
		render(cmd, views.Report(r, outputWidth()))
		return nil
	},
}

func init() {
	reportCmd.Flags().Bool("json", false, "Print the report as JSON")
}
