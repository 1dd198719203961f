package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/gengoka/internal/learning"
	"github.com/abhisek/gengoka/internal/ui/views"
)

var habitsCmd = &cobra.Command{
	Use:   "habits",
	Short: "Show stored habit reports to follow how habits change",
	RunE: func(cmd *cobra.Command, args []string) error {
		latest, _ := cmd.Flags().GetBool("latest")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()
		ctx := cmd.Context()

		var reports []learning.HabitReport
		if latest {
			r, err := d.tracker.LatestHabits(ctx)
			if err != nil {
				return fmt.Errorf("read habits: %w", err)
			}
			if r != nil {
				reports = append(reports, *r)
			}
		} else {
			if reports, err = d.tracker.HabitHistory(ctx); err != nil {
				return fmt.Errorf("read habits: %w", err)
			}
		}
		render(cmd, views.HabitHistory(reports, outputWidth()))
		return nil
	},
}

func init() {
	habitsCmd.Flags().Bool("latest", false, "Only the most recent report")
}
