package domain

import "time"

// Counter names accepted by AnalyticsRepository.IncrementCounters.
const (
	CounterGenerationsStarted   = "generations_started"
	CounterGenerationsCompleted = "generations_completed"
	CounterGenerationsFailed    = "generations_failed"
	CounterCreditsSpent         = "credits_spent"
)

// AnalyticsDaily stores aggregated generation metrics for a specific day.
type AnalyticsDaily struct {
	Day                  time.Time
	GenerationsStarted   int
	GenerationsCompleted int
	GenerationsFailed    int
	CreditsSpent         int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
