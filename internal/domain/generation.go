package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerationStatus enumerates lifecycle states of a generation attempt.
type GenerationStatus string

const (
	GenerationStatusPending   GenerationStatus = "pending"
	GenerationStatusCompleted GenerationStatus = "completed"
	GenerationStatusFailed    GenerationStatus = "failed"
)

// IsTerminal reports whether no further status transition is allowed.
func (s GenerationStatus) IsTerminal() bool {
	return s == GenerationStatusCompleted || s == GenerationStatusFailed
}

// ParseGenerationStatus validates a free-form status filter value.
func ParseGenerationStatus(raw string) (GenerationStatus, error) {
	switch GenerationStatus(raw) {
	case GenerationStatusPending, GenerationStatusCompleted, GenerationStatusFailed:
		return GenerationStatus(raw), nil
	default:
		return "", fmt.Errorf("unknown generation status %q", raw)
	}
}

// Generation is one user-initiated attempt to transform an uploaded photo
// into a provider-generated avatar. GeneratedImageURL is set exactly when the
// status is completed; ErrorMessage only when it is failed.
type Generation struct {
	ID                string
	UserID            string
	OriginalImageURL  string
	GeneratedImageURL *string
	Status            GenerationStatus
	ErrorMessage      *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewGenerationID returns a collision-resistant identifier for a generation.
func NewGenerationID(now time.Time) string {
	return fmt.Sprintf("gen_%d_%s", now.Unix(), uuid.NewString())
}
