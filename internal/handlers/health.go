package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ytsaryk/geoquest/internal/services"
)

// HealthResponse reports overall service health and per-component
// statuses.
type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Service    string            `json:"service"`
	Components map[string]string `json:"components"`
}

// HealthHandler answers liveness checks. The leaderboard is the only
// component with a connection to probe; a down leaderboard degrades
// health without failing it, since requests degrade the same way.
type HealthHandler struct {
	leaderboard services.Leaderboard
	log         *slog.Logger
}

func NewHealthHandler(leaderboard services.Leaderboard, log *slog.Logger) *HealthHandler {
	return &HealthHandler{leaderboard: leaderboard, log: log}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	components := make(map[string]string)
	status := "healthy"

	if h.leaderboard != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.leaderboard.Ping(ctx); err != nil {
			h.log.Warn("Leaderboard health check failed", "error", err)
			components["leaderboard"] = "unhealthy"
			status = "degraded"
		} else {
			components["leaderboard"] = "healthy"
		}
	} else {
		components["leaderboard"] = "disabled"
	}

	writeJSON(w, h.log, http.StatusOK, HealthResponse{
		Status:     status,
		Timestamp:  time.Now(),
		Service:    "geoquest",
		Components: components,
	})
}
