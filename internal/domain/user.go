package domain

import "time"

// DefaultSignupCredits is the balance granted to a freshly created account.
const DefaultSignupCredits = 30

// GenerationCost is the number of credits debited per accepted generation
// attempt, independent of the attempt outcome once debited.
const GenerationCost = 10

// User represents an authenticated account within the platform.
type User struct {
	ID        string
	Email     string
	Name      string
	Credits   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanAfford reports whether the balance covers a debit of the given cost.
func (u User) CanAfford(cost int) bool {
	return u.Credits >= cost
}
