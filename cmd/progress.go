package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/gengoka/internal/ui/views"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show completion per phase and the average score",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		p, err := d.tracker.Progress(cmd.Context())
		if err != nil {
			return fmt.Errorf("read progress: %w", err)
		}
		render(cmd, views.Progress(p, d.store.Totals(), outputWidth()))
		return nil
	},
}
