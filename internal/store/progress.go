package store

import (
	"context"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/gengoka/internal/learning"
)

const (
	progressTable = "progress"
	progressRowID = "current"
)

var progressColumns = []string{"phase1", "phase2", "phase3", "total_problems", "completed_problems", "average_score"}

// progressRepo implements ProgressRepo. The table holds a single row.
type progressRepo struct {
	conn   dialect.ExecQuerier
	totals learning.PhaseTotals
	now    func() time.Time
}

func (r *progressRepo) Save(ctx context.Context, p learning.Progress) error {
	cols := append([]string{"id"}, progressColumns...)
	cols = append(cols, "updated_at")
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(progressTable).
		Columns(cols...).
		Values(progressRowID, p.Phase1, p.Phase2, p.Phase3, p.TotalProblems, p.CompletedProblems, p.AverageScore, formatTime(r.now())).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := exec(ctx, r.conn, query, args); err != nil {
		return storageErr("save progress", err)
	}
	return nil
}

func (r *progressRepo) Get(ctx context.Context) (learning.Progress, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(progressColumns...).
		From(entsql.Table(progressTable)).
		Where(entsql.EQ("id", progressRowID)).
		Query()
	var rows entsql.Rows
	if err := r.conn.Query(ctx, query, args, &rows); err != nil {
		return learning.Progress{}, storageErr("get progress", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return learning.Progress{}, storageErr("get progress", err)
		}
		return learning.EmptyProgress(r.totals), nil
	}
	var p learning.Progress
	if err := rows.Scan(&p.Phase1, &p.Phase2, &p.Phase3, &p.TotalProblems, &p.CompletedProblems, &p.AverageScore); err != nil {
		return learning.Progress{}, storageErr("get progress", err)
	}
	return p, nil
}
