package store

import (
	"context"
	"encoding/json"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/gengoka/internal/learning"
)

const habitsTable = "habits"

// habitRepo implements HabitRepo. Reports are stored whole as JSON with the
// analysis time broken out for ordering.
type habitRepo struct {
	conn dialect.ExecQuerier
}

func (r *habitRepo) Save(ctx context.Context, rep *learning.HabitReport) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return storageErr("save habit report", fmt.Errorf("marshal report: %w", err))
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(habitsTable).
		Columns("id", "analyzed_at", "data").
		Values(rep.ID, formatTime(rep.AnalyzedAt), string(data)).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := exec(ctx, r.conn, query, args); err != nil {
		return storageErr("save habit report", err)
	}
	return nil
}

func (r *habitRepo) Latest(ctx context.Context) (*learning.HabitReport, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("data").
		From(entsql.Table(habitsTable)).
		OrderBy(entsql.Desc("analyzed_at"), entsql.Desc("id")).
		Limit(1)
	reports, err := r.query(ctx, sel)
	if err != nil {
		return nil, storageErr("query latest habit report", err)
	}
	if len(reports) == 0 {
		return nil, nil
	}
	return &reports[0], nil
}

func (r *habitRepo) List(ctx context.Context) ([]learning.HabitReport, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("data").
		From(entsql.Table(habitsTable)).
		OrderBy(entsql.Asc("analyzed_at"), entsql.Asc("id"))
	reports, err := r.query(ctx, sel)
	if err != nil {
		return nil, storageErr("list habit reports", err)
	}
	return reports, nil
}

func (r *habitRepo) Prune(ctx context.Context, keep int) error {
	var keepIDs []any
	if keep > 0 {
		// Find the IDs of the N most recent reports and drop the rest.
		query, args := entsql.Dialect(dialect.SQLite).
			Select("id").
			From(entsql.Table(habitsTable)).
			OrderBy(entsql.Desc("analyzed_at"), entsql.Desc("id")).
			Limit(keep).
			Query()
		var rows entsql.Rows
		if err := r.conn.Query(ctx, query, args, &rows); err != nil {
			return storageErr("query habit reports for prune", err)
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return storageErr("query habit reports for prune", err)
			}
			keepIDs = append(keepIDs, id)
		}
		err := rows.Err()
		rows.Close()
		if err != nil {
			return storageErr("query habit reports for prune", err)
		}
	}

	del := entsql.Dialect(dialect.SQLite).Delete(habitsTable)
	if len(keepIDs) > 0 {
		del = del.Where(entsql.NotIn("id", keepIDs...))
	}
	query, args := del.Query()
	if err := exec(ctx, r.conn, query, args); err != nil {
		return storageErr("prune habit reports", err)
	}
	return nil
}

func (r *habitRepo) query(ctx context.Context, sel *entsql.Selector) ([]learning.HabitReport, error) {
	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.conn.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []learning.HabitReport
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan habit report: %w", err)
		}
		var rep learning.HabitReport
		if err := json.Unmarshal([]byte(data), &rep); err != nil {
			return nil, fmt.Errorf("decode habit report: %w", err)
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}
