package avatar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"aivenger/internal/domain"
	"aivenger/internal/metrics"
	"aivenger/internal/storage"
)

const (
	msgUnauthorized        = "Unauthorized"
	msgInsufficientCredits = "Insufficient credits. Upgrade your plan to continue."
	msgNoImage             = "No image provided"
	msgGenerationFailed    = "AI generation failed. Please try again later."
	msgUnexpected          = "An unexpected error occurred"
)

// Provider is the external image-generation dependency of the workflow.
type Provider interface {
	Generate(ctx context.Context, imageBytes []byte, mimeType, prompt string) (string, error)
}

// ServiceOptions wires the orchestrator's collaborators.
type ServiceOptions struct {
	Users       domain.UserRepository
	Generations domain.GenerationRepository
	Analytics   domain.AnalyticsRepository
	Store       storage.BlobStore
	Provider    Provider
	Prompts     *PromptSynthesizer
	FetchClient *http.Client
	Metrics     *metrics.Metrics
	Logger      zerolog.Logger

	Cost            int
	ProviderTimeout time.Duration
	Now             func() time.Time
}

// Service sequences one generation attempt: credit check, original upload,
// record creation, atomic debit, provider call and reconciliation into a
// terminal record state. Once credits are debited the attempt always ends in
// a terminal state and is never refunded.
type Service struct {
	users       domain.UserRepository
	generations domain.GenerationRepository
	analytics   domain.AnalyticsRepository
	store       storage.BlobStore
	provider    Provider
	prompts     *PromptSynthesizer
	fetchClient *http.Client
	metrics     *metrics.Metrics
	logger      zerolog.Logger

	cost            int
	providerTimeout time.Duration
	now             func() time.Time
}

// NewService constructs the orchestrator, applying defaults for cost, clock
// and provider timeout.
func NewService(opts ServiceOptions) *Service {
	cost := opts.Cost
	if cost <= 0 {
		cost = domain.GenerationCost
	}
	timeout := opts.ProviderTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	fetchClient := opts.FetchClient
	if fetchClient == nil {
		fetchClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Service{
		users:           opts.Users,
		generations:     opts.Generations,
		analytics:       opts.Analytics,
		store:           opts.Store,
		provider:        opts.Provider,
		prompts:         opts.Prompts,
		fetchClient:     fetchClient,
		metrics:         opts.Metrics,
		logger:          opts.Logger,
		cost:            cost,
		providerTimeout: timeout,
		now:             now,
	}
}

// Generate runs the full workflow for one uploaded photo. Failures before the
// credit debit change no state; failures after it leave a durable failed
// record and the debit stands.
func (s *Service) Generate(ctx context.Context, userID string, image []byte, mimeType, filename string) (res Result) {
	if strings.TrimSpace(userID) == "" {
		return fail(CodeUnauthorized, msgUnauthorized)
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Str("user_id", userID).Msg("generation workflow panicked")
			res = fail(CodeDatabaseError, msgUnexpected)
		}
	}()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fail(CodeInsufficientCredits, msgInsufficientCredits)
		}
		s.logger.Error().Err(err).Str("user_id", userID).Msg("load user failed")
		return fail(CodeDatabaseError, msgUnexpected)
	}
	if !user.CanAfford(s.cost) {
		return fail(CodeInsufficientCredits, msgInsufficientCredits)
	}
	if len(image) == 0 {
		return fail(CodeUploadFailed, msgNoImage)
	}

	now := s.now()
	originalKey := fmt.Sprintf("%s/original_%s_%d_%s", storage.NamespaceOriginals, userID, now.Unix(), safeFilename(filename))
	originalURL, err := s.store.Upload(ctx, image, originalKey, mimeType)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("original upload failed")
		return fail(CodeDatabaseError, msgUnexpected)
	}

	gen := &domain.Generation{
		ID:               domain.NewGenerationID(now),
		UserID:           userID,
		OriginalImageURL: originalURL,
		Status:           domain.GenerationStatusPending,
	}
	if err := s.generations.Create(ctx, gen); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("create generation record failed")
		return fail(CodeDatabaseError, msgUnexpected)
	}
	s.count(ctx, domain.CounterGenerationsStarted, 1)

	// Debit before the provider call so retry loops against a failing
	// provider still cost the caller. The conditional update is the only
	// guard against concurrent overdraw; the balance read above merely
	// produces a friendlier early rejection.
	remaining, err := s.users.SpendCredits(ctx, userID, s.cost)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientCredits) {
			// Lost a race against a concurrent request after the
			// earlier balance read. The record still ends terminal.
			s.markFailed(ctx, gen, "insufficient credits")
			return fail(CodeInsufficientCredits, msgInsufficientCredits)
		}
		s.logger.Error().Err(err).Str("generation_id", gen.ID).Msg("credit debit failed")
		s.markFailed(ctx, gen, "credit deduction failed")
		return fail(CodeDatabaseError, msgUnexpected)
	}
	s.metrics.AddCreditsSpent(s.cost)
	s.count(ctx, domain.CounterCreditsSpent, s.cost)

	prompt := s.prompts.Build()
	provCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()
	started := time.Now()
	rawURL, err := s.provider.Generate(provCtx, image, mimeType, prompt)
	s.metrics.ObserveProviderDuration(time.Since(started))
	if err != nil {
		s.logger.Error().Err(err).Str("generation_id", gen.ID).Msg("provider call failed")
		s.markFailed(ctx, gen, err.Error())
		return fail(CodeAIGenerationFailed, msgGenerationFailed)
	}

	data, fetchedMIME, err := FetchImage(ctx, s.fetchClient, rawURL)
	if err != nil {
		s.logger.Error().Err(err).Str("generation_id", gen.ID).Msg("fetch generated image failed")
		s.markFailed(ctx, gen, err.Error())
		return fail(CodeDatabaseError, msgUnexpected)
	}

	generatedKey := fmt.Sprintf("%s/generated_%s_%d.png", storage.NamespaceGenerated, userID, now.Unix())
	finalURL, err := s.store.Upload(ctx, data, generatedKey, fetchedMIME)
	if err != nil {
		s.logger.Error().Err(err).Str("generation_id", gen.ID).Msg("generated upload failed")
		s.markFailed(ctx, gen, err.Error())
		return fail(CodeDatabaseError, msgUnexpected)
	}

	if err := s.generations.MarkCompleted(ctx, gen.ID, userID, finalURL); err != nil {
		s.logger.Error().Err(err).Str("generation_id", gen.ID).Msg("mark completed failed")
		return fail(CodeDatabaseError, msgUnexpected)
	}
	s.metrics.ObserveOutcome(string(domain.GenerationStatusCompleted))
	s.count(ctx, domain.CounterGenerationsCompleted, 1)

	final, err := s.generations.GetForUser(ctx, gen.ID, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("generation_id", gen.ID).Msg("reload generation failed")
		return fail(CodeDatabaseError, msgUnexpected)
	}
	return succeed(final, remaining)
}

// List returns the caller's generations, newest first, optionally filtered by
// status and capped by limit (0 means no cap).
func (s *Service) List(ctx context.Context, userID string, status *domain.GenerationStatus, limit int) ([]domain.Generation, error) {
	return s.generations.ListForUser(ctx, userID, status, limit)
}

// Delete removes the generation's backing blobs and its record, scoped to the
// owning user. Unknown or foreign ids surface as domain.ErrNotFound.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	gen, err := s.generations.GetForUser(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, gen.OriginalImageURL); err != nil {
		return fmt.Errorf("delete original blob: %w", err)
	}
	if gen.GeneratedImageURL != nil && *gen.GeneratedImageURL != "" {
		if err := s.store.Delete(ctx, *gen.GeneratedImageURL); err != nil {
			return fmt.Errorf("delete generated blob: %w", err)
		}
	}
	return s.generations.DeleteForUser(ctx, id, userID)
}

// UserStats summarizes one account for the dashboard.
type UserStats struct {
	Credits            int
	TotalGenerations   int
	LastGenerationDate *time.Time
}

// Stats loads credits plus completed-generation aggregates for the caller.
func (s *Service) Stats(ctx context.Context, userID string) (*UserStats, error) {
	stats := &UserStats{Credits: domain.DefaultSignupCredits}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if user != nil {
		stats.Credits = user.Credits
	}

	total, err := s.generations.CountCompleted(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.TotalGenerations = total

	last, err := s.generations.LastCompletedAt(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if last != nil {
		t := last.CreatedAt
		stats.LastGenerationDate = &t
	}
	return stats, nil
}

// markFailed transitions the record to its terminal failed state. The write
// uses a detached context so a cancelled request cannot strand a pending row.
func (s *Service) markFailed(ctx context.Context, gen *domain.Generation, message string) {
	ctx = context.WithoutCancel(ctx)
	if err := s.generations.MarkFailed(ctx, gen.ID, gen.UserID, message); err != nil {
		s.logger.Error().Err(err).Str("generation_id", gen.ID).Msg("mark failed failed")
	}
	s.metrics.ObserveOutcome(string(domain.GenerationStatusFailed))
	s.count(ctx, domain.CounterGenerationsFailed, 1)
}

// count increments a daily analytics counter. Analytics is best-effort and
// never fails the request.
func (s *Service) count(ctx context.Context, counter string, amount int) {
	if s.analytics == nil {
		return
	}
	day := s.now().UTC().Format("2006-01-02")
	if err := s.analytics.IncrementCounters(context.WithoutCancel(ctx), day, map[string]int{counter: amount}); err != nil {
		s.logger.Warn().Err(err).Str("counter", counter).Msg("analytics increment failed")
	}
}

// safeFilename reduces a client-supplied filename to a storage-safe token.
func safeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "upload"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
