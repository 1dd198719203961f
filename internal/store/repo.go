package store

import (
	"context"

	"github.com/abhisek/gengoka/internal/learning"
)

// AnswerRepo manages recorded practice submissions.
type AnswerRepo interface {
	// Put inserts the answer or replaces the one with the same ID. A replaced
	// answer keeps its original position in All.
	Put(ctx context.Context, a *learning.Answer) error

	// All returns every answer in insertion order.
	All(ctx context.Context) ([]learning.Answer, error)

	// ByProblemID returns the latest attempt for a problem, or nil if none exist.
	ByProblemID(ctx context.Context, problemID string) (*learning.Answer, error)

	// Attempts returns every attempt for a problem, oldest first.
	Attempts(ctx context.Context, problemID string) ([]learning.Answer, error)
}

// ProgressRepo manages the single current progress snapshot.
type ProgressRepo interface {
	// Save overwrites the current snapshot.
	Save(ctx context.Context, p learning.Progress) error

	// Get returns the current snapshot, or the empty default if none was saved.
	Get(ctx context.Context) (learning.Progress, error)
}

// HabitRepo manages habit report snapshots.
type HabitRepo interface {
	// Save stores a new report, replacing one with the same ID.
	Save(ctx context.Context, r *learning.HabitReport) error

	// Latest returns the most recent report, or nil if none exist.
	Latest(ctx context.Context) (*learning.HabitReport, error)

	// List returns every report, oldest first.
	List(ctx context.Context) ([]learning.HabitReport, error)

	// Prune deletes all but the N most recent reports.
	Prune(ctx context.Context, keep int) error
}
