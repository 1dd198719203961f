package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/gengoka/internal/ui/views"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		problemID, _ := cmd.Flags().GetString("problem")
		limit, _ := cmd.Flags().GetInt("limit")
		latest, _ := cmd.Flags().GetBool("latest")

		if latest && problemID == "" {
			return fmt.Errorf("--latest needs --problem")
		}

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()
		ctx := cmd.Context()

		if latest {
			a, err := d.tracker.LatestAnswer(ctx, problemID)
			if err != nil {
				return fmt.Errorf("read answer: %w", err)
			}
			if a == nil {
				return fmt.Errorf("no answers for problem %q", problemID)
			}
			render(cmd, views.Answer(a, outputWidth()))
			return nil
		}

		answers, err := d.tracker.History(ctx, problemID)
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		if limit > 0 && len(answers) > limit {
			answers = answers[len(answers)-limit:]
		}
		render(cmd, views.History(answers, outputWidth()))
		return nil
	},
}

func init() {
	historyCmd.Flags().String("problem", "", "Only attempts at this problem")
	historyCmd.Flags().Int("limit", 0, "Show only the most recent N answers")
	historyCmd.Flags().Bool("latest", false, "Show the latest attempt at --problem with its feedback")
}
