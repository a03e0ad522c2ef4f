package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"aivenger/internal/domain"
	"aivenger/internal/infra"
)

// AnalyticsRepositoryPG implements domain.AnalyticsRepository using PostgreSQL.
type AnalyticsRepositoryPG struct {
	db infra.SQLExecutor
}

// NewAnalyticsRepository constructs the repository.
func NewAnalyticsRepository(db infra.SQLExecutor) *AnalyticsRepositoryPG {
	return &AnalyticsRepositoryPG{db: db}
}

// IncrementCounters upserts metrics for the provided day.
func (r *AnalyticsRepositoryPG) IncrementCounters(ctx context.Context, day string, counters map[string]int) error {
	query := `
INSERT INTO analytics_daily (
    day, generations_started, generations_completed, generations_failed, credits_spent
) VALUES (
    $1, $2, $3, $4, $5
) ON CONFLICT (day) DO UPDATE SET
    generations_started = analytics_daily.generations_started + EXCLUDED.generations_started,
    generations_completed = analytics_daily.generations_completed + EXCLUDED.generations_completed,
    generations_failed = analytics_daily.generations_failed + EXCLUDED.generations_failed,
    credits_spent = analytics_daily.credits_spent + EXCLUDED.credits_spent,
    updated_at = NOW();
`
	_, err := r.db.Exec(ctx, query,
		day,
		counters[domain.CounterGenerationsStarted],
		counters[domain.CounterGenerationsCompleted],
		counters[domain.CounterGenerationsFailed],
		counters[domain.CounterCreditsSpent],
	)
	return err
}

// GetSummary returns the most recent daily aggregate.
func (r *AnalyticsRepositoryPG) GetSummary(ctx context.Context) (*domain.AnalyticsDaily, error) {
	row := r.db.QueryRow(ctx, `
SELECT day, generations_started, generations_completed, generations_failed, credits_spent, created_at, updated_at
FROM analytics_daily
ORDER BY day DESC
LIMIT 1;
`)

	var summary domain.AnalyticsDaily
	if err := row.Scan(
		&summary.Day,
		&summary.GenerationsStarted,
		&summary.GenerationsCompleted,
		&summary.GenerationsFailed,
		&summary.CreditsSpent,
		&summary.CreatedAt,
		&summary.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &summary, nil
}

var _ domain.AnalyticsRepository = (*AnalyticsRepositoryPG)(nil)
