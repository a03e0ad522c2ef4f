package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"aivenger/internal/domain"
)

func genVals(id, userID string, status domain.GenerationStatus, generatedURL *string) []any {
	now := time.Now()
	return []any{id, userID, "https://blobs.test/originals/a.png", generatedURL, status, (*string)(nil), now, now}
}

func TestGenerationMarkCompleted(t *testing.T) {
	db := &stubDB{execQueue: []stubExec{{tag: tag("UPDATE 1")}}}
	r := NewGenerationRepository(db)

	if err := r.MarkCompleted(context.Background(), "gen-1", "user-1", "https://blobs.test/generated/out.png"); err != nil {
		t.Fatalf("MarkCompleted error: %v", err)
	}
}

func TestGenerationMarkCompletedAlreadyTerminal(t *testing.T) {
	db := &stubDB{
		execQueue: []stubExec{{tag: tag("UPDATE 0")}},
		rowQueue:  []stubRow{{vals: []any{domain.GenerationStatusFailed}}},
	}
	r := NewGenerationRepository(db)

	err := r.MarkCompleted(context.Background(), "gen-1", "user-1", "https://blobs.test/generated/out.png")
	if !errors.Is(err, domain.ErrTerminalStatus) {
		t.Fatalf("expected ErrTerminalStatus, got %v", err)
	}
}

func TestGenerationMarkFailedMissingRecord(t *testing.T) {
	db := &stubDB{
		execQueue: []stubExec{{tag: tag("UPDATE 0")}},
		rowQueue:  []stubRow{{err: pgx.ErrNoRows}},
	}
	r := NewGenerationRepository(db)

	if err := r.MarkFailed(context.Background(), "gen-1", "user-1", "boom"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerationGetForUserNotFound(t *testing.T) {
	db := &stubDB{rowQueue: []stubRow{{err: pgx.ErrNoRows}}}
	r := NewGenerationRepository(db)

	if _, err := r.GetForUser(context.Background(), "gen-1", "user-2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerationListForUser(t *testing.T) {
	url := "https://blobs.test/generated/out.png"
	db := &stubDB{rowsQueue: []*stubRows{{rows: [][]any{
		genVals("gen-2", "user-1", domain.GenerationStatusCompleted, &url),
		genVals("gen-1", "user-1", domain.GenerationStatusFailed, nil),
	}}}}
	r := NewGenerationRepository(db)

	out, err := r.ListForUser(context.Background(), "user-1", nil, 0)
	if err != nil {
		t.Fatalf("ListForUser error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].ID != "gen-2" || out[0].GeneratedImageURL == nil || *out[0].GeneratedImageURL != url {
		t.Fatalf("unexpected first record: %+v", out[0])
	}
	if out[1].Status != domain.GenerationStatusFailed || out[1].GeneratedImageURL != nil {
		t.Fatalf("unexpected second record: %+v", out[1])
	}
	// Status filter is bound as NULL when absent so the SQL skips it.
	if got := db.args[0][1]; got != (*string)(nil) {
		t.Fatalf("expected nil status arg, got %v", got)
	}
}

func TestGenerationListForUserStatusFilter(t *testing.T) {
	db := &stubDB{rowsQueue: []*stubRows{{}}}
	r := NewGenerationRepository(db)

	status := domain.GenerationStatusCompleted
	if _, err := r.ListForUser(context.Background(), "user-1", &status, 5); err != nil {
		t.Fatalf("ListForUser error: %v", err)
	}
	statusArg, ok := db.args[0][1].(*string)
	if !ok || statusArg == nil || *statusArg != "completed" {
		t.Fatalf("unexpected status arg: %v", db.args[0][1])
	}
	if db.args[0][2] != 5 {
		t.Fatalf("unexpected limit arg: %v", db.args[0][2])
	}
}

func TestGenerationDeleteForUser(t *testing.T) {
	db := &stubDB{execQueue: []stubExec{{tag: tag("DELETE 1")}, {tag: tag("DELETE 0")}}}
	r := NewGenerationRepository(db)

	if err := r.DeleteForUser(context.Background(), "gen-1", "user-1"); err != nil {
		t.Fatalf("DeleteForUser error: %v", err)
	}
	if err := r.DeleteForUser(context.Background(), "gen-1", "user-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestGenerationCountCompleted(t *testing.T) {
	db := &stubDB{rowQueue: []stubRow{{vals: []any{3}}}}
	r := NewGenerationRepository(db)

	count, err := r.CountCompleted(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("CountCompleted error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3, got %d", count)
	}
}

func TestGenerationLastCompletedAtNone(t *testing.T) {
	db := &stubDB{rowQueue: []stubRow{{err: pgx.ErrNoRows}}}
	r := NewGenerationRepository(db)

	if _, err := r.LastCompletedAt(context.Background(), "user-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
