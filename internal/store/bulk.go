package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"go.uber.org/zap"

	"github.com/abhisek/gengoka/internal/learning"
)

// ImportResult reports what an import wrote.
type ImportResult struct {
	AnswersImported int
	ReportsImported int
}

// ExportAll reads every collection inside one transaction and returns them
// as a bundle stamped with the current bundle version.
func (s *Store) ExportAll(ctx context.Context) (*learning.ExportBundle, error) {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return nil, storageErr("export: begin", err)
	}
	// Read-only; rollback just releases the snapshot.
	defer tx.Rollback()

	answers, err := (&answerRepo{conn: tx}).All(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := s.newProgressRepo(tx).Get(ctx)
	if err != nil {
		return nil, err
	}
	reports, err := (&habitRepo{conn: tx}).List(ctx)
	if err != nil {
		return nil, err
	}

	if answers == nil {
		answers = []learning.Answer{}
	}
	b := &learning.ExportBundle{
		ExportedAt:   s.now().UTC(),
		Version:      learning.BundleVersion,
		Answers:      answers,
		Progress:     progress,
		HabitHistory: reports,
	}
	if len(reports) > 0 {
		latest := latestReport(reports)
		b.Habits = &latest
	}
	return b, nil
}

// latestReport picks the newest report by analysis time from a
// chronologically ordered list.
func latestReport(reports []learning.HabitReport) learning.HabitReport {
	latest := reports[0]
	for _, r := range reports[1:] {
		if !r.AnalyzedAt.Before(latest.AnalyzedAt) {
			latest = r
		}
	}
	return latest
}

// ImportAll replaces the store contents with the bundle. The bundle is
// validated in full before anything is touched; answers without a phase get
// one from the configured prefix table. The clear and every insert share a
// single transaction, so a failure leaves the previous contents in place.
func (s *Store) ImportAll(ctx context.Context, b *learning.ExportBundle) (*ImportResult, error) {
	if err := learning.NormalizeBundle(b, s.phases); err != nil {
		return nil, err
	}

	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return nil, &ErrImportFailed{Stage: StageBegin, RolledBack: true, Err: err}
	}
	fail := func(stage ImportStage, err error) error {
		rbErr := tx.Rollback()
		if rbErr != nil {
			s.log.Error("import rollback failed",
				zap.String("stage", string(stage)),
				zap.Error(rbErr))
		}
		return &ErrImportFailed{Stage: stage, RolledBack: rbErr == nil, Err: err}
	}

	if err := clearAll(ctx, tx); err != nil {
		return nil, fail(StageClear, err)
	}

	result := &ImportResult{}
	answers := &answerRepo{conn: tx}
	for i := range b.Answers {
		if err := answers.Put(ctx, &b.Answers[i]); err != nil {
			return nil, fail(StageAnswers, err)
		}
		result.AnswersImported++
	}

	if err := s.newProgressRepo(tx).Save(ctx, b.Progress); err != nil {
		return nil, fail(StageProgress, err)
	}

	habits := &habitRepo{conn: tx}
	for _, r := range b.Reports() {
		r := r
		if err := habits.Save(ctx, &r); err != nil {
			return nil, fail(StageHabits, err)
		}
		result.ReportsImported++
	}

	if err := tx.Commit(); err != nil {
		return nil, &ErrImportFailed{Stage: StageCommit, RolledBack: true, Err: err}
	}

	s.log.Info("import completed",
		zap.String("version", b.Version),
		zap.Int("answers", result.AnswersImported),
		zap.Int("reports", result.ReportsImported))
	return result, nil
}

// ClearAll empties every collection in one transaction. Clearing an empty
// store is a no-op.
func (s *Store) ClearAll(ctx context.Context) error {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return storageErr("clear: begin", err)
	}
	if err := clearAll(ctx, tx); err != nil {
		tx.Rollback()
		return storageErr("clear", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("clear: commit", err)
	}
	return nil
}

func clearAll(ctx context.Context, conn dialect.ExecQuerier) error {
	for _, table := range []string{answersTable, progressTable, habitsTable} {
		query, args := entsql.Dialect(dialect.SQLite).Delete(table).Query()
		if err := exec(ctx, conn, query, args); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
