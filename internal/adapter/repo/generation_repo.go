package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"aivenger/internal/domain"
	"aivenger/internal/infra"
)

// GenerationRepositoryPG implements domain.GenerationRepository. Every query
// carries the owning user id so foreign records are indistinguishable from
// missing ones.
type GenerationRepositoryPG struct {
	db infra.SQLExecutor
}

// NewGenerationRepository creates a new GenerationRepositoryPG.
func NewGenerationRepository(db infra.SQLExecutor) *GenerationRepositoryPG {
	return &GenerationRepositoryPG{db: db}
}

// Create inserts a new pending generation record.
func (r *GenerationRepositoryPG) Create(ctx context.Context, gen *domain.Generation) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO generations (id, user_id, original_image_url, generated_image_url, status, error_message)
VALUES ($1, $2, $3, $4, $5, $6);
`, gen.ID, gen.UserID, gen.OriginalImageURL, gen.GeneratedImageURL, gen.Status, gen.ErrorMessage)
	return err
}

// MarkCompleted transitions a pending record to completed. Terminal rows are
// left untouched; transitions are monotonic.
func (r *GenerationRepositoryPG) MarkCompleted(ctx context.Context, id, userID, generatedImageURL string) error {
	tag, err := r.db.Exec(ctx, `
UPDATE generations
SET status = 'completed',
    generated_image_url = $3,
    updated_at = NOW()
WHERE id = $1
  AND user_id = $2
  AND status = 'pending';
`, id, userID, generatedImageURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return terminalOrMissing(ctx, r.db, id, userID)
	}
	return nil
}

// MarkFailed transitions a pending record to failed with the captured error.
func (r *GenerationRepositoryPG) MarkFailed(ctx context.Context, id, userID, errorMessage string) error {
	tag, err := r.db.Exec(ctx, `
UPDATE generations
SET status = 'failed',
    error_message = $3,
    updated_at = NOW()
WHERE id = $1
  AND user_id = $2
  AND status = 'pending';
`, id, userID, errorMessage)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return terminalOrMissing(ctx, r.db, id, userID)
	}
	return nil
}

// GetForUser fetches one record scoped to its owner.
func (r *GenerationRepositoryPG) GetForUser(ctx context.Context, id, userID string) (*domain.Generation, error) {
	row := r.db.QueryRow(ctx, `
SELECT id, user_id, original_image_url, generated_image_url, status, error_message, created_at, updated_at
FROM generations
WHERE id = $1
  AND user_id = $2;
`, id, userID)
	return scanGeneration(row)
}

// ListForUser returns the owner's records newest first, optionally filtered
// by status and capped by limit (<= 0 means no cap).
func (r *GenerationRepositoryPG) ListForUser(ctx context.Context, userID string, status *domain.GenerationStatus, limit int) ([]domain.Generation, error) {
	query := `
SELECT id, user_id, original_image_url, generated_image_url, status, error_message, created_at, updated_at
FROM generations
WHERE user_id = $1
  AND ($2::text IS NULL OR status = $2)
ORDER BY created_at DESC
LIMIT NULLIF($3, 0);
`
	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}
	if limit < 0 {
		limit = 0
	}
	rows, err := r.db.Query(ctx, query, userID, statusArg, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Generation
	for rows.Next() {
		var g domain.Generation
		if err := rows.Scan(&g.ID, &g.UserID, &g.OriginalImageURL, &g.GeneratedImageURL, &g.Status, &g.ErrorMessage, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// DeleteForUser removes one record scoped to its owner.
func (r *GenerationRepositoryPG) DeleteForUser(ctx context.Context, id, userID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM generations WHERE id = $1 AND user_id = $2;`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountCompleted returns how many generations the user has completed.
func (r *GenerationRepositoryPG) CountCompleted(ctx context.Context, userID string) (int, error) {
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM generations WHERE user_id = $1 AND status = 'completed';`, userID)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// LastCompletedAt returns the most recent completed generation, or
// domain.ErrNotFound when none exists.
func (r *GenerationRepositoryPG) LastCompletedAt(ctx context.Context, userID string) (*domain.Generation, error) {
	row := r.db.QueryRow(ctx, `
SELECT id, user_id, original_image_url, generated_image_url, status, error_message, created_at, updated_at
FROM generations
WHERE user_id = $1
  AND status = 'completed'
ORDER BY created_at DESC
LIMIT 1;
`, userID)
	return scanGeneration(row)
}

func terminalOrMissing(ctx context.Context, db infra.SQLExecutor, id, userID string) error {
	row := db.QueryRow(ctx, `SELECT status FROM generations WHERE id = $1 AND user_id = $2;`, id, userID)
	var status domain.GenerationStatus
	if err := row.Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if status.IsTerminal() {
		return domain.ErrTerminalStatus
	}
	return domain.ErrNotFound
}

func scanGeneration(row pgx.Row) (*domain.Generation, error) {
	var g domain.Generation
	if err := row.Scan(&g.ID, &g.UserID, &g.OriginalImageURL, &g.GeneratedImageURL, &g.Status, &g.ErrorMessage, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

var _ domain.GenerationRepository = (*GenerationRepositoryPG)(nil)
