package domain

import "context"

// UserRepository defines access methods for users and their credit balance.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// SpendCredits debits cost from the user's balance in a single
	// conditional update and returns the remaining balance. It returns
	// ErrInsufficientCredits when the balance does not cover the cost, so
	// two concurrent requests can never jointly overdraw the account.
	SpendCredits(ctx context.Context, userID string, cost int) (int, error)
	GrantCredits(ctx context.Context, userID string, amount int) (int, error)
}

// GenerationRepository persists generation records. Every read and write is
// scoped by the owning user id; a mismatch surfaces as ErrNotFound.
type GenerationRepository interface {
	Create(ctx context.Context, gen *Generation) error
	MarkCompleted(ctx context.Context, id, userID, generatedImageURL string) error
	MarkFailed(ctx context.Context, id, userID, errorMessage string) error
	GetForUser(ctx context.Context, id, userID string) (*Generation, error)
	ListForUser(ctx context.Context, userID string, status *GenerationStatus, limit int) ([]Generation, error)
	DeleteForUser(ctx context.Context, id, userID string) error
	CountCompleted(ctx context.Context, userID string) (int, error)
	LastCompletedAt(ctx context.Context, userID string) (*Generation, error)
}

// AnalyticsRepository updates aggregate daily counters. Implementations are
// best-effort sinks; the generation workflow never fails on analytics errors.
type AnalyticsRepository interface {
	IncrementCounters(ctx context.Context, day string, counters map[string]int) error
	GetSummary(ctx context.Context) (*AnalyticsDaily, error)
}
