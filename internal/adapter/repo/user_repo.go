package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"aivenger/internal/domain"
	"aivenger/internal/infra"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	db infra.SQLExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(db infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{db: db}
}

// Create inserts a user record, granting the default signup credits when the
// caller does not specify a balance.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	credits := user.Credits
	if credits <= 0 {
		credits = domain.DefaultSignupCredits
	}
	row := r.db.QueryRow(ctx, `
INSERT INTO users (id, email, name, credits)
VALUES ($1, $2, $3, $4)
RETURNING id, email, name, credits, created_at, updated_at;
`, user.ID, user.Email, user.Name, credits)
	return scanUser(row)
}

// GetByID fetches a user by identifier.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, name, credits, created_at, updated_at FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail fetches a user by email address.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, name, credits, created_at, updated_at FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// SpendCredits debits cost from the balance in a single conditional update.
// The WHERE guard makes the check and the decrement one atomic statement, so
// concurrent requests can never jointly overdraw the account.
func (r *UserRepositoryPG) SpendCredits(ctx context.Context, userID string, cost int) (int, error) {
	row := r.db.QueryRow(ctx, `
UPDATE users
SET credits = credits - $2,
    updated_at = NOW()
WHERE id = $1
  AND credits >= $2
RETURNING credits;
`, userID, cost)

	var remaining int
	if err := row.Scan(&remaining); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the user is unknown or the guard rejected the
			// debit; distinguish the two for the caller.
			if _, lookupErr := r.GetByID(ctx, userID); lookupErr != nil {
				return 0, lookupErr
			}
			return 0, domain.ErrInsufficientCredits
		}
		return 0, err
	}
	return remaining, nil
}

// GrantCredits tops up the balance and returns the new total.
func (r *UserRepositoryPG) GrantCredits(ctx context.Context, userID string, amount int) (int, error) {
	row := r.db.QueryRow(ctx, `
UPDATE users
SET credits = credits + $2,
    updated_at = NOW()
WHERE id = $1
RETURNING credits;
`, userID, amount)

	var total int
	if err := row.Scan(&total); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return total, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Credits, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
