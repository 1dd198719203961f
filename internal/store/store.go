package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"go.uber.org/zap"

	"github.com/abhisek/gengoka/internal/learning"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the SQL driver and provides access to repositories.
type Store struct {
	db     *sql.DB
	drv    *entsql.Driver
	log    *zap.Logger
	phases learning.PhaseResolver
	totals learning.PhaseTotals
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for migrations and bulk operations.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithPhaseResolver sets the prefix table used to backfill legacy phases.
func WithPhaseResolver(r learning.PhaseResolver) Option {
	return func(s *Store) { s.phases = r }
}

// WithPhaseTotals sets the per-phase problem counts used for the default
// progress snapshot.
func WithPhaseTotals(t learning.PhaseTotals) Option {
	return func(s *Store) { s.totals = t }
}

// WithClock overrides the time source used for progress and export
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and runs every pending migration before
// returning. Any failure is reported as *ErrStorageUnavailable.
func Open(dsn string, opts ...Option) (*Store, error) {
	s := &Store{
		log:    zap.NewNop(),
		phases: learning.NewPhaseResolver(nil),
		totals: learning.DefaultPhaseTotals(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &ErrStorageUnavailable{Path: dsn, Err: fmt.Errorf("open database: %w", err)}
	}
	// Single actor: one connection serialises every statement and
	// keeps per-connection pragmas in effect.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, &ErrStorageUnavailable{Path: dsn, Err: fmt.Errorf("apply pragmas: %w", err)}
	}

	s.db = db
	s.drv = entsql.OpenDB(dialect.SQLite, db)

	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, &ErrStorageUnavailable{Path: dsn, Err: err}
	}
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// Totals returns the configured per-phase problem counts.
func (s *Store) Totals() learning.PhaseTotals {
	return s.totals
}

// Answers returns an AnswerRepo backed by this store.
func (s *Store) Answers() AnswerRepo {
	return &answerRepo{conn: s.drv}
}

// Progress returns a ProgressRepo backed by this store.
func (s *Store) Progress() ProgressRepo {
	return s.newProgressRepo(s.drv)
}

func (s *Store) newProgressRepo(conn dialect.ExecQuerier) *progressRepo {
	return &progressRepo{conn: conn, totals: s.totals, now: s.now}
}

// Habits returns a HabitRepo backed by this store.
func (s *Store) Habits() HabitRepo {
	return &habitRepo{conn: s.drv}
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. GENGOKA_DB environment variable
// 2. $XDG_DATA_HOME/gengoka/gengoka.db
// 3. ~/.local/share/gengoka/gengoka.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("GENGOKA_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "gengoka", "gengoka.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
