package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/abhisek/gengoka/internal/learning"
)

func testReport(id string, at time.Time) *learning.HabitReport {
	return &learning.HabitReport{
		ID:         id,
		AnalyzedAt: at,
		Patterns: []learning.HabitPattern{{
			Type:      learning.HabitStructure,
			Category:  "構造化",
			Severity:  learning.SeverityHigh,
			Frequency: 0.75,
			Examples:  []string{"箇条書き不足"},
		}},
		Recommendations: []string{"構造化を優先"},
	}
}

func TestHabitSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.Habits()
	ctx := context.Background()

	rep, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if rep != nil {
		t.Fatal("expected nil report when none exist")
	}

	now := time.Now().UTC()
	if err := repo.Save(ctx, testReport("r1", now)); err != nil {
		t.Fatalf("save: %v", err)
	}

	rep, err = repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if rep == nil {
		t.Fatal("expected non-nil report")
	}
	if rep.ID != "r1" {
		t.Errorf("id = %q, want r1", rep.ID)
	}
	if !rep.AnalyzedAt.Equal(now) {
		t.Errorf("analyzedAt = %v, want %v", rep.AnalyzedAt, now)
	}
	if len(rep.Patterns) != 1 || rep.Patterns[0].Frequency != 0.75 {
		t.Errorf("patterns = %+v", rep.Patterns)
	}
}

func TestHabitLatestReturnsNewest(t *testing.T) {
	s := openTestStore(t)
	repo := s.Habits()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	// Saved newest-first so insertion order differs from analysis order.
	for i := 2; i >= 0; i-- {
		if err := repo.Save(ctx, testReport(fmt.Sprintf("r%d", i), base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	rep, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if rep.ID != "r2" {
		t.Errorf("latest = %q, want r2", rep.ID)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i, r := range list {
		if want := fmt.Sprintf("r%d", i); r.ID != want {
			t.Errorf("list[%d] = %q, want %q", i, r.ID, want)
		}
	}
}

func TestHabitPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.Habits()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 7; i++ {
		if err := repo.Save(ctx, testReport(fmt.Sprintf("r%d", i), base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 5 {
		t.Fatalf("remaining reports = %d, want 5", len(list))
	}
	if list[0].ID != "r2" {
		t.Errorf("oldest kept = %q, want r2", list[0].ID)
	}

	rep, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if rep.ID != "r6" {
		t.Errorf("latest = %q, want r6", rep.ID)
	}
}

func TestHabitPruneWithFewerThanKeep(t *testing.T) {
	s := openTestStore(t)
	repo := s.Habits()
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 2; i++ {
		if err := repo.Save(ctx, testReport(fmt.Sprintf("r%d", i), base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("remaining reports = %d, want 2", len(list))
	}
}
