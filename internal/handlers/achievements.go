package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ytsaryk/geoquest/internal/engine"
)

// AchievementHandler serves the achievement catalog and unlocks.
type AchievementHandler struct {
	engine *engine.Engine
	log    *slog.Logger
}

func NewAchievementHandler(eng *engine.Engine, log *slog.Logger) *AchievementHandler {
	return &AchievementHandler{engine: eng, log: log}
}

// List handles GET /v1/achievements
func (h *AchievementHandler) List(w http.ResponseWriter, r *http.Request) {
	player := h.engine.Player()
	unlocked := make(map[string]bool, len(player.Achievements))
	for _, id := range player.Achievements {
		unlocked[id] = true
	}

	type achievementView struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		Description    string `json:"description"`
		RewardGeobucks int    `json:"reward_geobucks"`
		Unlocked       bool   `json:"unlocked"`
	}
	catalog := h.engine.Achievements()
	views := make([]achievementView, len(catalog))
	for i, a := range catalog {
		views[i] = achievementView{
			ID:             a.ID,
			Name:           a.Name,
			Description:    a.Description,
			RewardGeobucks: a.RewardGeobucks,
			Unlocked:       unlocked[a.ID],
		}
	}
	writeJSON(w, h.log, http.StatusOK, map[string]any{"achievements": views})
}

// Unlock handles POST /v1/achievements/{id}/unlock
func (h *AchievementHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	achievement, newlyUnlocked, err := h.engine.UnlockAchievement(id)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, map[string]any{
		"achievement":    achievement,
		"newly_unlocked": newlyUnlocked,
		"player":         h.engine.Player(),
	})
}
