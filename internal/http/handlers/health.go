package handlers

import (
	"net/http"
	"time"
)

// Health answers liveness probes. It deliberately touches no dependencies;
// database or provider trouble shows up in /metrics and the logs, not here.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "aivenger",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
