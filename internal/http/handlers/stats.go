package handlers

import (
	"errors"
	"net/http"
	"time"

	"aivenger/internal/avatar"
	"aivenger/internal/domain"
)

// MeStats summarizes the caller's account for the dashboard.
func (a *App) MeStats(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, avatar.CodeUnauthorized, "missing user context")
		return
	}

	stats, err := a.Avatars.Stats(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("load stats failed")
		a.error(w, http.StatusInternalServerError, avatar.CodeDatabaseError, "failed to fetch stats")
		return
	}

	var last *string
	if stats.LastGenerationDate != nil {
		v := stats.LastGenerationDate.UTC().Format(time.RFC3339)
		last = &v
	}
	a.json(w, http.StatusOK, map[string]any{
		"credits":              stats.Credits,
		"total_generations":    stats.TotalGenerations,
		"last_generation_date": last,
	})
}

// StatsSummary exposes the most recent daily aggregate counters.
func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.Analytics.GetSummary(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.json(w, http.StatusOK, map[string]any{
				"day":                   nil,
				"generations_started":   0,
				"generations_completed": 0,
				"generations_failed":    0,
				"credits_spent":         0,
			})
			return
		}
		a.Logger.Error().Err(err).Msg("load analytics summary failed")
		a.error(w, http.StatusInternalServerError, avatar.CodeDatabaseError, "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"day":                   summary.Day.UTC().Format("2006-01-02"),
		"generations_started":   summary.GenerationsStarted,
		"generations_completed": summary.GenerationsCompleted,
		"generations_failed":    summary.GenerationsFailed,
		"credits_spent":         summary.CreditsSpent,
	})
}
