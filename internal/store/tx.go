package store

import (
	"context"

	"go.uber.org/zap"
)

// Repos is a set of repositories bound to one transaction.
type Repos struct {
	Answers  AnswerRepo
	Progress ProgressRepo
	Habits   HabitRepo
}

// InTx runs fn inside a single transaction. The transaction commits when fn
// returns nil and rolls back otherwise; fn's error is returned unchanged.
// fn must only use the repos it is given.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return storageErr("tx: begin", err)
	}
	r := Repos{
		Answers:  &answerRepo{conn: tx},
		Progress: s.newProgressRepo(tx),
		Habits:   &habitRepo{conn: tx},
	}
	if err := fn(ctx, r); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Error("rollback failed", zap.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return storageErr("tx: commit", err)
	}
	return nil
}
