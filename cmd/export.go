package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/gengoka/internal/exchange"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all data as a JSON or YAML bundle",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		formatFlag, _ := cmd.Flags().GetString("format")

		format := exchange.FormatFromPath(out)
		if formatFlag != "" {
			f, err := exchange.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			format = f
		}

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		b, err := d.tracker.RequestExport(cmd.Context())
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}

		var w io.Writer = cmd.OutOrStdout()
		if out != "" && out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}
		if err := exchange.Encode(w, b, format); err != nil {
			return fmt.Errorf("write bundle: %w", err)
		}
		if out != "" && out != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d answers and %d habit reports to %s\n",
				len(b.Answers), len(b.HabitHistory), out)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
	exportCmd.Flags().String("format", "", "json or yaml (default: from the file extension, else json)")
}
