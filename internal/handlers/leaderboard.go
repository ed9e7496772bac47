package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ytsaryk/geoquest/internal/engine"
)

// LeaderboardHandler serves the top XP totals. Degrades to an empty
// board when the mirror is disabled or down.
type LeaderboardHandler struct {
	engine *engine.Engine
	log    *slog.Logger
}

func NewLeaderboardHandler(eng *engine.Engine, log *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{engine: eng, log: log}
}

// Top handles GET /v1/leaderboard
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, http.StatusOK, map[string]any{"entries": h.engine.Leaderboard(r.Context())})
}
