package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"aivenger/internal/domain"
)

func TestAnalyticsIncrementCounters(t *testing.T) {
	db := &stubDB{execQueue: []stubExec{{tag: tag("INSERT 0 1")}}}
	r := NewAnalyticsRepository(db)

	err := r.IncrementCounters(context.Background(), "2026-09-01", map[string]int{
		domain.CounterGenerationsStarted: 1,
		domain.CounterCreditsSpent:       10,
	})
	if err != nil {
		t.Fatalf("IncrementCounters error: %v", err)
	}

	args := db.args[0]
	if args[0] != "2026-09-01" {
		t.Fatalf("unexpected day arg: %v", args[0])
	}
	// Counter order is day, started, completed, failed, credits. Absent
	// counters bind as zero.
	want := []any{1, 0, 0, 10}
	for i, w := range want {
		if args[i+1] != w {
			t.Fatalf("arg %d: got %v, want %v", i+1, args[i+1], w)
		}
	}
}

func TestAnalyticsGetSummary(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	db := &stubDB{rowQueue: []stubRow{{vals: []any{day, 4, 3, 1, 40, day, day}}}}
	r := NewAnalyticsRepository(db)

	summary, err := r.GetSummary(context.Background())
	if err != nil {
		t.Fatalf("GetSummary error: %v", err)
	}
	if !summary.Day.Equal(day) || summary.GenerationsStarted != 4 || summary.GenerationsCompleted != 3 ||
		summary.GenerationsFailed != 1 || summary.CreditsSpent != 40 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestAnalyticsGetSummaryEmpty(t *testing.T) {
	db := &stubDB{rowQueue: []stubRow{{err: pgx.ErrNoRows}}}
	r := NewAnalyticsRepository(db)

	if _, err := r.GetSummary(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
