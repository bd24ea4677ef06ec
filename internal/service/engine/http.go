package engine

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oshokin/alert-override/internal/version"
)

// Health is the /healthz response body.
type Health struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	ActiveSessions int    `json:"active_sessions"`
	PendingTasks   int    `json:"pending_tasks"`
}

// Router serves /metrics and /healthz.
func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", a.health)

	return r
}

func (a *App) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	_ = json.NewEncoder(w).Encode(Health{
		Status:         "ok",
		Version:        version.Short(),
		ActiveSessions: a.controller.Active(),
		PendingTasks:   a.loop.Len(),
	})
}
