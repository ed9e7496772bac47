package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ytsaryk/geoquest/internal/engine"
)

// QuestHandler serves quest generation, listing, the active-quest
// lifecycle and weather suitability checks.
type QuestHandler struct {
	engine *engine.Engine
	log    *slog.Logger
}

func NewQuestHandler(eng *engine.Engine, log *slog.Logger) *QuestHandler {
	return &QuestHandler{engine: eng, log: log}
}

// parseCoords reads lat/lon query parameters.
func parseCoords(r *http.Request) (lat, lon float64, ok bool) {
	var err error
	lat, err = strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// Generate handles GET /v1/quests/generate?lat=..&lon=..
func (h *QuestHandler) Generate(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseCoords(r)
	if !ok {
		writeError(w, h.log, http.StatusBadRequest, "lat and lon query parameters are required")
		return
	}

	result, err := h.engine.GenerateQuests(r.Context(), lat, lon)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, result)
}

// List handles GET /v1/quests
func (h *QuestHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, http.StatusOK, map[string]any{"quests": h.engine.ListQuests()})
}

// SetActive handles POST /v1/quests/active?quest_id=..
func (h *QuestHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("quest_id"))
	if err != nil {
		writeError(w, h.log, http.StatusBadRequest, "quest_id query parameter is required")
		return
	}

	q, err := h.engine.SetActiveQuest(id)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, map[string]any{"ok": true, "active_quest": q})
}

// CompleteActive handles POST /v1/quests/active/complete?lat=..&lon=..
func (h *QuestHandler) CompleteActive(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseCoords(r)
	if !ok {
		writeError(w, h.log, http.StatusBadRequest, "lat and lon query parameters are required")
		return
	}

	result, err := h.engine.CompleteActiveQuest(r.Context(), lat, lon)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, result)
}

// CheckWeather handles GET /v1/quests/{id}/weather
func (h *QuestHandler) CheckWeather(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, http.StatusBadRequest, "quest id must be an integer")
		return
	}

	result, err := h.engine.CheckSuitability(r.Context(), id)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, result)
}
