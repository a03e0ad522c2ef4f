package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"aivenger/internal/avatar"
	"aivenger/internal/domain"
	"aivenger/internal/infra"
	"aivenger/internal/metrics"
	"aivenger/internal/middleware"
)

// App is the handler container; the router mounts its methods.
type App struct {
	Avatars   *avatar.Service
	Analytics domain.AnalyticsRepository
	Logger    zerolog.Logger
	Config    *infra.Config
	Metrics   *metrics.Metrics
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error writes the discriminated failure envelope shared by every endpoint.
func (a *App) error(w http.ResponseWriter, status int, code avatar.ErrorCode, message string) {
	a.json(w, status, map[string]any{
		"success": false,
		"error":   message,
		"code":    code,
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
