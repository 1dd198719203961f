package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/gengoka/internal/exchange"
	"github.com/abhisek/gengoka/internal/learning"
	"github.com/abhisek/gengoka/internal/tracker"
	"github.com/abhisek/gengoka/internal/ui/views"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Record an answer and its feedback",
	Long: `Record an answer to a practice problem. Feedback is a JSON or YAML document
produced by whoever scored the answer; without it the answer is kept as a
draft and does not count towards progress.

  gengoka submit --problem phase1-03 --file answer.txt --feedback feedback.yaml
  echo "..." | gengoka submit --problem phase2-01 --file - --score 78`,
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().String("problem", "", "Problem ID (required)")
	submitCmd.Flags().Int("phase", 0, "Phase 1-3 (default: derived from the problem ID)")
	submitCmd.Flags().String("text", "", "Answer text")
	submitCmd.Flags().String("file", "", "Read the answer from a file (- for stdin)")
	submitCmd.Flags().String("feedback", "", "Feedback document, JSON or YAML")
	submitCmd.Flags().Int("score", 0, "Score 0-100 (overrides the feedback score)")
	_ = submitCmd.MarkFlagRequired("problem")
	submitCmd.MarkFlagsMutuallyExclusive("text", "file")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	problemID, _ := cmd.Flags().GetString("problem")
	phase, _ := cmd.Flags().GetInt("phase")

	text, err := answerText(cmd)
	if err != nil {
		return err
	}
	fb, err := feedbackArg(cmd)
	if err != nil {
		return err
	}

	d, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	a, err := d.tracker.SubmitAnswer(cmd.Context(), tracker.Submission{
		ProblemID: problemID,
		Phase:     learning.Phase(phase),
		Text:      text,
		Feedback:  fb,
	})
	if err != nil {
		return fmt.Errorf("submit answer: %w", err)
	}

	render(cmd, views.Answer(a, outputWidth()))
	return nil
}

func answerText(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		f, err := openInput(cmd, path)
		if err != nil {
			return "", fmt.Errorf("open answer: %w", err)
		}
		defer f.Close()
		b, err := io.ReadAll(f)
		if err != nil {
			return "", fmt.Errorf("read answer: %w", err)
		}
		return string(b), nil
	}
	text, _ := cmd.Flags().GetString("text")
	return text, nil
}

func feedbackArg(cmd *cobra.Command) (*learning.Feedback, error) {
	var fb *learning.Feedback
	if path, _ := cmd.Flags().GetString("feedback"); path != "" {
		f, err := openInput(cmd, path)
		if err != nil {
			return nil, fmt.Errorf("open feedback: %w", err)
		}
		defer f.Close()
		if fb, err = exchange.DecodeFeedback(f); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("score") {
		score, _ := cmd.Flags().GetInt("score")
		if fb == nil {
			fb = &learning.Feedback{}
		}
		fb.Score = &score
	}
	return fb, nil
}
