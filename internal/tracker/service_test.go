package tracker

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/gengoka/internal/learning"
	"github.com/abhisek/gengoka/internal/logging"
	"github.com/abhisek/gengoka/internal/recommend"
	"github.com/abhisek/gengoka/internal/store"
)

type fixture struct {
	svc   *Service
	store *store.Store
	logs  *observer.ObservedLogs
	clock time.Time
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "tracker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger, logs := logging.NewObserved(zapcore.DebugLevel)
	f := &fixture{store: st, logs: logs, clock: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}

	seq := 0
	base := []Option{
		WithLogger(logger),
		WithClock(func() time.Time {
			f.clock = f.clock.Add(time.Minute)
			return f.clock
		}),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%03d", seq)
		}),
	}
	f.svc = NewService(st, append(base, opts...)...)
	return f
}

func scored(v int) *learning.Feedback {
	return &learning.Feedback{OverallImpression: "ok", Score: &v}
}

func TestSubmitAnswer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.SubmitAnswer(ctx, Submission{ProblemID: "phase1-01", Text: "報告します。", Feedback: scored(72)})
	require.NoError(t, err)
	assert.Equal(t, "id-001", a.ID)
	assert.Equal(t, learning.Phase1, a.Phase)
	assert.True(t, a.IsCompleted)
	assert.Equal(t, time.UTC, a.SubmittedAt.Location())

	p, err := f.svc.Progress(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, p.Phase1, 1e-9)
	assert.Equal(t, 1, p.CompletedProblems)
	assert.Equal(t, 72.0, p.AverageScore)

	entries := f.logs.FilterMessage("answer recorded").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "phase1-01", entries[0].ContextMap()["problem_id"])
}

func TestSubmitAnswerWithoutFeedbackIsIncomplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.SubmitAnswer(ctx, Submission{ProblemID: "x-1", Phase: learning.Phase3, Text: "draft"})
	require.NoError(t, err)
	assert.False(t, a.IsCompleted)
	assert.Equal(t, learning.Phase3, a.Phase)

	p, err := f.svc.Progress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, p.CompletedProblems)
	assert.Equal(t, 0.0, p.Phase3)
}

func TestSubmitAnswerValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		sub   Submission
		field string
	}{
		{"empty text", Submission{ProblemID: "phase1-01", Text: "  "}, "answer"},
		{"unknown phase", Submission{ProblemID: "misc-01", Text: "x"}, "phase"},
		{"invalid phase", Submission{ProblemID: "phase1-01", Phase: 7, Text: "x"}, "phase"},
		{"score out of range", Submission{ProblemID: "phase1-01", Text: "x", Feedback: scored(140)}, "feedback.score"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.SubmitAnswer(ctx, tt.sub)
			var ve *learning.ErrValidation
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	all, err := f.svc.History(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

type failingProgress struct {
	store.ProgressRepo
	err error
}

func (p failingProgress) Save(context.Context, learning.Progress) error { return p.err }

// brokenProgressBackend fails every progress write made inside a transaction.
type brokenProgressBackend struct {
	*store.Store
	err error
}

func (b brokenProgressBackend) InTx(ctx context.Context, fn func(ctx context.Context, r store.Repos) error) error {
	return b.Store.InTx(ctx, func(ctx context.Context, r store.Repos) error {
		r.Progress = failingProgress{ProgressRepo: r.Progress, err: b.err}
		return fn(ctx, r)
	})
}

func TestSubmitAnswerRollsBackWhenProgressFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boom := errors.New("disk full")
	svc := NewService(brokenProgressBackend{Store: f.store, err: boom})

	_, err := svc.SubmitAnswer(ctx, Submission{ProblemID: "phase1-01", Text: "報告します。", Feedback: scored(72)})
	require.ErrorIs(t, err, boom)

	all, err := f.svc.History(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all, "answer must not outlive a failed recompute")

	p, err := f.svc.Progress(ctx)
	require.NoError(t, err)
	assert.Equal(t, learning.EmptyProgress(learning.DefaultPhaseTotals()), p)
}

func TestRequestReportEmptyHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.RequestReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, r.TotalAnswers)
	assert.Empty(t, r.Habits)
	assert.Empty(t, r.Recommendations)
	assert.Equal(t, recommend.NextSteps(), r.NextSteps)

	latest, err := f.svc.LatestHabits(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest, "empty history persists no report")
}

func TestRequestReportSingleWeakAnswer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitAnswer(ctx, Submission{
		ProblemID: "phase1-01",
		Text:      strings.Repeat("あ", 50),
		Feedback:  scored(60),
	})
	require.NoError(t, err)

	r, err := f.svc.RequestReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, r.TotalAnswers)
	assert.Equal(t, 60, r.AverageScore)
	assert.Equal(t, 0, r.ScoreImprovement)
	require.Len(t, r.Habits, 3)
	assert.Contains(t, r.Recommendations, "基本的なビジネス文書の型をもう一度復習しましょう")
	assert.Contains(t, r.Recommendations, "構造化の改善を最優先で取り組みましょう")
	assert.Len(t, r.NextSteps, 4)

	latest, err := f.svc.LatestHabits(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, r.Habits, latest.Patterns)
	assert.Equal(t, r.Recommendations, latest.Recommendations)
}

func TestRequestReportUnscoredHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitAnswer(ctx, Submission{
		ProblemID: "phase1-02",
		Text:      "【件名】" + strings.Repeat("よろしくお願いします。", 25),
		Feedback:  &learning.Feedback{OverallImpression: "ok"},
	})
	require.NoError(t, err)

	r, err := f.svc.RequestReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, r.AverageScore)
	assert.Empty(t, r.Habits)
	assert.Equal(t, []string{
		"基本的なビジネス文書の型をもう一度復習しましょう",
		"テンプレートを活用して構造化された文章作成を練習しましょう",
	}, r.Recommendations)
}

func TestRequestReportRetention(t *testing.T) {
	f := newFixture(t, WithKeepReports(2))
	ctx := context.Background()

	_, err := f.svc.SubmitAnswer(ctx, Submission{ProblemID: "phase2-01", Text: "報告です。", Feedback: scored(80)})
	require.NoError(t, err)

	var last *learning.ReportData
	for i := 0; i < 4; i++ {
		last, err = f.svc.RequestReport(ctx)
		require.NoError(t, err)
	}
	require.NotNil(t, last)

	history, err := f.svc.HabitHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	latest, err := f.svc.LatestHabits(ctx)
	require.NoError(t, err)
	assert.Equal(t, history[len(history)-1].ID, latest.ID)
}

func TestHistoryAndLatestAnswer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, score := range []int{50, 70, 90} {
		_, err := f.svc.SubmitAnswer(ctx, Submission{ProblemID: "phase2-03", Text: "回答です", Feedback: scored(score)})
		require.NoError(t, err)
	}
	_, err := f.svc.SubmitAnswer(ctx, Submission{ProblemID: "phase1-01", Text: "回答です", Feedback: scored(40)})
	require.NoError(t, err)

	attempts, err := f.svc.History(ctx, "phase2-03")
	require.NoError(t, err)
	assert.Len(t, attempts, 3)

	all, err := f.svc.History(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	latest, err := f.svc.LatestAnswer(ctx, "phase2-03")
	require.NoError(t, err)
	score, _ := latest.Score()
	assert.Equal(t, 90, score)

	p, err := f.svc.Progress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, p.CompletedProblems, "re-submissions count once")
	assert.InDelta(t, 12.5, p.Phase2, 1e-9)
	assert.InDelta(t, 62.5, p.AverageScore, 1e-9)
}

func TestExportResetImport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitAnswer(ctx, Submission{ProblemID: "phase3-01", Text: "【提案】実施いたします。", Feedback: scored(88)})
	require.NoError(t, err)
	_, err = f.svc.RequestReport(ctx)
	require.NoError(t, err)

	bundle, err := f.svc.RequestExport(ctx)
	require.NoError(t, err)
	require.Len(t, bundle.Answers, 1)
	require.NotNil(t, bundle.Habits)

	require.NoError(t, f.svc.Reset(ctx))
	p, err := f.svc.Progress(ctx)
	require.NoError(t, err)
	assert.Equal(t, learning.EmptyProgress(learning.DefaultPhaseTotals()), p)

	res, err := f.svc.RequestImport(ctx, bundle)
	require.NoError(t, err)
	assert.Equal(t, 1, res.AnswersImported)
	assert.Equal(t, 1, res.ReportsImported)

	again, err := f.svc.RequestExport(ctx)
	require.NoError(t, err)
	assert.Equal(t, bundle.Answers, again.Answers)
	assert.Equal(t, bundle.Progress, again.Progress)
	assert.Equal(t, bundle.HabitHistory, again.HabitHistory)
}

func TestRequestImportRejectsBadVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitAnswer(ctx, Submission{ProblemID: "phase1-01", Text: "x", Feedback: scored(70)})
	require.NoError(t, err)

	_, err = f.svc.RequestImport(ctx, &learning.ExportBundle{Version: "not-a-version"})
	var ve *learning.ErrValidation
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, 1, f.logs.FilterMessage("import rejected").Len())

	all, err := f.svc.History(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
