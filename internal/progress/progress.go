// Package progress derives the progress snapshot from the recorded answers.
package progress

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/abhisek/gengoka/internal/learning"
)

// Compute builds a progress snapshot from answers. Only completed answers
// count toward phase completion, and each problem counts once however many
// times it was attempted.
func Compute(answers []learning.Answer, totals learning.PhaseTotals) learning.Progress {
	perPhase := make(map[learning.Phase]map[string]struct{}, len(learning.Phases))
	completed := make(map[string]struct{})
	var scoreSum, scored int

	for i := range answers {
		a := &answers[i]
		if !a.IsCompleted {
			continue
		}
		completed[a.ProblemID] = struct{}{}
		if a.Phase.Valid() {
			if perPhase[a.Phase] == nil {
				perPhase[a.Phase] = make(map[string]struct{})
			}
			perPhase[a.Phase][a.ProblemID] = struct{}{}
		}
		if s, ok := a.Score(); ok {
			scoreSum += s
			scored++
		}
	}

	p := learning.Progress{
		Phase1:            percent(len(perPhase[learning.Phase1]), totals.Phase1),
		Phase2:            percent(len(perPhase[learning.Phase2]), totals.Phase2),
		Phase3:            percent(len(perPhase[learning.Phase3]), totals.Phase3),
		TotalProblems:     totals.Sum(),
		CompletedProblems: len(completed),
	}
	if scored > 0 {
		p.AverageScore = float64(scoreSum) / float64(scored)
	}
	return p
}

func percent(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Min(100, float64(done)/float64(total)*100)
}

// AnswerReader is the read side the aggregator needs.
type AnswerReader interface {
	All(ctx context.Context) ([]learning.Answer, error)
}

// ProgressWriter persists the computed snapshot.
type ProgressWriter interface {
	Save(ctx context.Context, p learning.Progress) error
}

// Aggregator recomputes and stores the progress snapshot.
type Aggregator struct {
	answers  AnswerReader
	progress ProgressWriter
	totals   learning.PhaseTotals
	logger   *zap.Logger
}

// NewAggregator creates an Aggregator. A nil logger is replaced by a no-op.
func NewAggregator(answers AnswerReader, progress ProgressWriter, totals learning.PhaseTotals, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{answers: answers, progress: progress, totals: totals, logger: logger}
}

// Recompute reads every answer, derives the snapshot and overwrites the
// stored one.
func (a *Aggregator) Recompute(ctx context.Context) (learning.Progress, error) {
	answers, err := a.answers.All(ctx)
	if err != nil {
		return learning.Progress{}, fmt.Errorf("load answers: %w", err)
	}
	p := Compute(answers, a.totals)
	if err := a.progress.Save(ctx, p); err != nil {
		return learning.Progress{}, fmt.Errorf("save progress: %w", err)
	}
	a.logger.Debug("progress recomputed",
		zap.Int("completed", p.CompletedProblems),
		zap.Float64("average_score", p.AverageScore))
	return p, nil
}
