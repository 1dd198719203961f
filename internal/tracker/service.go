// Package tracker is the inbound API of the learning tracker: recording
// answers, producing reports and moving data in and out of the store.
package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/gengoka/internal/habits"
	"github.com/abhisek/gengoka/internal/learning"
	"github.com/abhisek/gengoka/internal/progress"
	"github.com/abhisek/gengoka/internal/recommend"
	"github.com/abhisek/gengoka/internal/store"
)

// Backend is the persistence the service needs. *store.Store satisfies it.
type Backend interface {
	Answers() store.AnswerRepo
	Progress() store.ProgressRepo
	Habits() store.HabitRepo
	Totals() learning.PhaseTotals
	ExportAll(ctx context.Context) (*learning.ExportBundle, error)
	ImportAll(ctx context.Context, b *learning.ExportBundle) (*store.ImportResult, error)
	ClearAll(ctx context.Context) error
	InTx(ctx context.Context, fn func(ctx context.Context, r store.Repos) error) error
}

// Submission is one answer as handed in by a collaborator.
type Submission struct {
	ProblemID string
	// Phase may be left unknown; it is then derived from ProblemID.
	Phase    learning.Phase
	Text     string
	Feedback *learning.Feedback
}

// Service coordinates the store, the progress aggregator, the habit engine
// and the recommendation rules.
type Service struct {
	backend     Backend
	engine      *habits.Engine
	phases      learning.PhaseResolver
	keepReports int
	now         func() time.Time
	newID       func() string
	logger      *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEngine replaces the habit engine.
func WithEngine(e *habits.Engine) Option {
	return func(s *Service) { s.engine = e }
}

// WithPhaseResolver sets the prefix table used when a submission has no phase.
func WithPhaseResolver(r learning.PhaseResolver) Option {
	return func(s *Service) { s.phases = r }
}

// WithKeepReports keeps only the N most recent habit reports. 0 keeps all.
func WithKeepReports(n int) Option {
	return func(s *Service) { s.keepReports = n }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides answer and report ID generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// NewService creates a tracker service on top of backend.
func NewService(backend Backend, opts ...Option) *Service {
	s := &Service{
		backend: backend,
		engine:  habits.NewEngine(),
		phases:  learning.NewPhaseResolver(nil),
		now:     time.Now,
		newID:   uuid.NewString,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitAnswer records an answer and recomputes progress in one
// transaction, so a failed recompute leaves no answer behind. The answer is
// completed when feedback is present.
func (s *Service) SubmitAnswer(ctx context.Context, sub Submission) (*learning.Answer, error) {
	if strings.TrimSpace(sub.Text) == "" {
		return nil, &learning.ErrValidation{Field: "answer", Reason: "must not be empty"}
	}
	phase := sub.Phase
	if phase == learning.PhaseUnknown {
		p, ok := s.phases.Resolve(sub.ProblemID)
		if !ok {
			return nil, &learning.ErrValidation{
				Field:  "phase",
				Reason: fmt.Sprintf("no phase given and none derivable from problem %q", sub.ProblemID),
			}
		}
		phase = p
	}

	a := &learning.Answer{
		ID:          s.newID(),
		ProblemID:   sub.ProblemID,
		Phase:       phase,
		Text:        sub.Text,
		SubmittedAt: s.now().UTC(),
		Feedback:    sub.Feedback,
		IsCompleted: sub.Feedback != nil,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	err := s.backend.InTx(ctx, func(ctx context.Context, r store.Repos) error {
		if err := r.Answers.Put(ctx, a); err != nil {
			return err
		}
		_, err := progress.NewAggregator(r.Answers, r.Progress, s.backend.Totals(), s.logger).Recompute(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.String("answer_id", a.ID),
		zap.String("problem_id", a.ProblemID),
		zap.Int("phase", int(a.Phase)),
		zap.Bool("completed", a.IsCompleted),
	}
	if score, ok := a.Score(); ok {
		fields = append(fields, zap.Int("score", score))
	}
	s.logger.Info("answer recorded", fields...)
	return a, nil
}

// RequestReport analyses the whole history and returns the aggregated
// report. A habit report snapshot is stored for every non-empty history.
func (s *Service) RequestReport(ctx context.Context) (*learning.ReportData, error) {
	answers, err := s.backend.Answers().All(ctx)
	if err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		return &learning.ReportData{
			Strengths:       []string{},
			Habits:          []learning.HabitPattern{},
			Recommendations: []string{},
			NextSteps:       recommend.NextSteps(),
		}, nil
	}

	res := s.engine.Analyze(answers)
	recs := recommend.Synthesize(recommend.Input{
		Habits:       res.Habits,
		AverageScore: res.AverageScore,
	})

	report := &learning.HabitReport{
		ID:                s.newID(),
		AnalyzedAt:        s.now().UTC(),
		Patterns:          res.Habits,
		Recommendations:   recs,
		ImprovementTrends: res.Trends,
	}
	if err := s.backend.Habits().Save(ctx, report); err != nil {
		return nil, err
	}
	if s.keepReports > 0 {
		if err := s.backend.Habits().Prune(ctx, s.keepReports); err != nil {
			return nil, err
		}
	}

	s.logger.Info("report generated",
		zap.String("report_id", report.ID),
		zap.Int("answers", len(answers)),
		zap.Int("habits", len(res.Habits)),
		zap.Int("average_score", res.AverageScore))

	return &learning.ReportData{
		TotalAnswers:     len(answers),
		AverageScore:     res.AverageScore,
		ScoreImprovement: res.ScoreImprovement,
		Strengths:        res.Strengths,
		Habits:           res.Habits,
		Recommendations:  recs,
		NextSteps:        recommend.NextSteps(),
	}, nil
}

// RequestExport returns the full dataset as a bundle.
func (s *Service) RequestExport(ctx context.Context) (*learning.ExportBundle, error) {
	b, err := s.backend.ExportAll(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("data exported",
		zap.Int("answers", len(b.Answers)),
		zap.Int("reports", len(b.HabitHistory)))
	return b, nil
}

// RequestImport replaces the stored data with bundle. Invalid bundles are
// rejected before anything is removed.
func (s *Service) RequestImport(ctx context.Context, b *learning.ExportBundle) (*store.ImportResult, error) {
	res, err := s.backend.ImportAll(ctx, b)
	if err != nil {
		s.logger.Warn("import rejected", zap.Error(err))
		return nil, err
	}
	return res, nil
}

// Progress returns the stored progress snapshot.
func (s *Service) Progress(ctx context.Context) (learning.Progress, error) {
	return s.backend.Progress().Get(ctx)
}

// History returns every answer in insertion order, or every attempt at one
// problem in chronological order when problemID is set.
func (s *Service) History(ctx context.Context, problemID string) ([]learning.Answer, error) {
	if problemID != "" {
		return s.backend.Answers().Attempts(ctx, problemID)
	}
	return s.backend.Answers().All(ctx)
}

// LatestAnswer returns the latest attempt at a problem, or nil.
func (s *Service) LatestAnswer(ctx context.Context, problemID string) (*learning.Answer, error) {
	return s.backend.Answers().ByProblemID(ctx, problemID)
}

// LatestHabits returns the most recent habit report, or nil.
func (s *Service) LatestHabits(ctx context.Context) (*learning.HabitReport, error) {
	return s.backend.Habits().Latest(ctx)
}

// HabitHistory returns every stored habit report, oldest first.
func (s *Service) HabitHistory(ctx context.Context) ([]learning.HabitReport, error) {
	return s.backend.Habits().List(ctx)
}

// Reset removes all stored data.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.backend.ClearAll(ctx); err != nil {
		return err
	}
	s.logger.Info("all data cleared")
	return nil
}
