package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/gengoka/internal/learning"
)

const answersTable = "answers"

// timeLayout is fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var answerColumns = []string{"id", "problem_id", "phase", "text", "submitted_at", "feedback", "is_completed"}

// answerRepo implements AnswerRepo on top of any ExecQuerier, so the same
// code runs on the driver or inside a transaction.
type answerRepo struct {
	conn dialect.ExecQuerier
}

func (r *answerRepo) Put(ctx context.Context, a *learning.Answer) error {
	feedback, err := encodeFeedback(a.Feedback)
	if err != nil {
		return storageErr("put answer", err)
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(answersTable).
		Columns(answerColumns...).
		Values(a.ID, a.ProblemID, int(a.Phase), a.Text, formatTime(a.SubmittedAt), feedback, a.IsCompleted).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := exec(ctx, r.conn, query, args); err != nil {
		return storageErr("put answer", err)
	}
	return nil
}

func (r *answerRepo) All(ctx context.Context) ([]learning.Answer, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(answerColumns...).
		From(entsql.Table(answersTable)).
		OrderBy(entsql.Asc("seq"))
	answers, err := r.query(ctx, sel)
	if err != nil {
		return nil, storageErr("list answers", err)
	}
	return answers, nil
}

func (r *answerRepo) ByProblemID(ctx context.Context, problemID string) (*learning.Answer, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(answerColumns...).
		From(entsql.Table(answersTable)).
		Where(entsql.EQ("problem_id", problemID)).
		OrderBy(entsql.Desc("submitted_at"), entsql.Desc("seq")).
		Limit(1)
	answers, err := r.query(ctx, sel)
	if err != nil {
		return nil, storageErr("query answer by problem", err)
	}
	if len(answers) == 0 {
		return nil, nil
	}
	return &answers[0], nil
}

func (r *answerRepo) Attempts(ctx context.Context, problemID string) ([]learning.Answer, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(answerColumns...).
		From(entsql.Table(answersTable)).
		Where(entsql.EQ("problem_id", problemID)).
		OrderBy(entsql.Asc("submitted_at"), entsql.Asc("seq"))
	answers, err := r.query(ctx, sel)
	if err != nil {
		return nil, storageErr("query attempts", err)
	}
	return answers, nil
}

func (r *answerRepo) query(ctx context.Context, sel *entsql.Selector) ([]learning.Answer, error) {
	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.conn.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []learning.Answer
	for rows.Next() {
		var (
			a           learning.Answer
			phase       int
			submittedAt string
			feedback    sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.ProblemID, &phase, &a.Text, &submittedAt, &feedback, &a.IsCompleted); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		a.Phase = learning.Phase(phase)
		t, err := parseTime(submittedAt)
		if err != nil {
			return nil, fmt.Errorf("answer %s: %w", a.ID, err)
		}
		a.SubmittedAt = t
		if feedback.Valid {
			a.Feedback = &learning.Feedback{}
			if err := json.Unmarshal([]byte(feedback.String), a.Feedback); err != nil {
				return nil, fmt.Errorf("answer %s: decode feedback: %w", a.ID, err)
			}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func encodeFeedback(f *learning.Feedback) (sql.NullString, error) {
	if f == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal feedback: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
