package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"go.uber.org/zap"
)

// CurrentSchemaVersion is the newest schema this build can read and write.
const CurrentSchemaVersion = 2

// migration upgrades the schema from version-1 to version. Each migration
// runs in its own transaction together with the user_version bump.
type migration struct {
	version int
	name    string
	apply   func(ctx context.Context, s *Store, conn dialect.ExecQuerier) error
}

var migrations = []migration{
	{version: 1, name: "initial layout", apply: migrateInitial},
	{version: 2, name: "explicit answer phase", apply: migrateAnswerPhase},
}

var initialSchema = []string{
	`CREATE TABLE IF NOT EXISTS answers (
		seq          INTEGER PRIMARY KEY AUTOINCREMENT,
		id           TEXT    NOT NULL UNIQUE,
		problem_id   TEXT    NOT NULL,
		text         TEXT    NOT NULL,
		submitted_at TEXT    NOT NULL,
		feedback     TEXT,
		is_completed INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_answers_problem_id ON answers(problem_id)`,
	`CREATE INDEX IF NOT EXISTS idx_answers_submitted_at ON answers(submitted_at)`,
	`CREATE TABLE IF NOT EXISTS progress (
		id                 TEXT    PRIMARY KEY,
		phase1             REAL    NOT NULL DEFAULT 0,
		phase2             REAL    NOT NULL DEFAULT 0,
		phase3             REAL    NOT NULL DEFAULT 0,
		total_problems     INTEGER NOT NULL DEFAULT 0,
		completed_problems INTEGER NOT NULL DEFAULT 0,
		average_score      REAL    NOT NULL DEFAULT 0,
		updated_at         TEXT    NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS habits (
		id          TEXT PRIMARY KEY,
		analyzed_at TEXT NOT NULL,
		data        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_habits_analyzed_at ON habits(analyzed_at)`,
}

func migrateInitial(ctx context.Context, _ *Store, conn dialect.ExecQuerier) error {
	for _, stmt := range initialSchema {
		if err := exec(ctx, conn, stmt, []any{}); err != nil {
			return err
		}
	}
	return nil
}

// migrateAnswerPhase adds the phase column and derives it for existing rows
// from the problem id prefix. Rows whose prefix matches no phase keep 0.
func migrateAnswerPhase(ctx context.Context, s *Store, conn dialect.ExecQuerier) error {
	if err := exec(ctx, conn, `ALTER TABLE answers ADD COLUMN phase INTEGER NOT NULL DEFAULT 0`, []any{}); err != nil {
		return err
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Select("id", "problem_id").
		From(entsql.Table(answersTable)).
		Where(entsql.EQ("phase", 0)).
		Query()
	var rows entsql.Rows
	if err := conn.Query(ctx, query, args, &rows); err != nil {
		return fmt.Errorf("list legacy answers: %w", err)
	}
	type legacy struct{ id, problemID string }
	var pending []legacy
	for rows.Next() {
		var l legacy
		if err := rows.Scan(&l.id, &l.problemID); err != nil {
			rows.Close()
			return fmt.Errorf("scan legacy answer: %w", err)
		}
		pending = append(pending, l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	unresolved := 0
	for _, l := range pending {
		phase, ok := s.phases.Resolve(l.problemID)
		if !ok {
			unresolved++
			continue
		}
		query, args := entsql.Dialect(dialect.SQLite).
			Update(answersTable).
			Set("phase", int(phase)).
			Where(entsql.EQ("id", l.id)).
			Query()
		if err := exec(ctx, conn, query, args); err != nil {
			return fmt.Errorf("backfill phase for %s: %w", l.id, err)
		}
	}
	if unresolved > 0 {
		s.log.Warn("answers without a resolvable phase prefix",
			zap.Int("count", unresolved))
	}
	return nil
}

// migrate brings the database up to CurrentSchemaVersion.
func (s *Store) migrate(ctx context.Context) error {
	current, err := schemaVersion(ctx, s.drv)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if current > CurrentSchemaVersion {
		return &ErrUnsupportedSchema{Found: current, Supported: CurrentSchemaVersion}
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := s.drv.Tx(ctx)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		if err := m.apply(ctx, s, tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		if err := exec(ctx, tx, fmt.Sprintf("PRAGMA user_version = %d", m.version), []any{}); err != nil {
			tx.Rollback()
			return fmt.Errorf("bump schema version to %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
		s.log.Info("applied schema migration",
			zap.Int("version", m.version),
			zap.String("name", m.name))
	}
	return nil
}

// schemaVersion reads PRAGMA user_version.
func schemaVersion(ctx context.Context, conn dialect.ExecQuerier) (int, error) {
	var rows entsql.Rows
	if err := conn.Query(ctx, "PRAGMA user_version", []any{}, &rows); err != nil {
		return 0, err
	}
	defer rows.Close()

	var v int
	if rows.Next() {
		if err := rows.Scan(&v); err != nil {
			return 0, err
		}
	}
	return v, rows.Err()
}

// SchemaVersion returns the schema version recorded in the database.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	return schemaVersion(ctx, s.drv)
}

func exec(ctx context.Context, conn dialect.ExecQuerier, query string, args []any) error {
	return conn.Exec(ctx, query, args, nil)
}
