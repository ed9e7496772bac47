package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ytsaryk/geoquest/internal/engine"
)

// PlayerHandler serves the player view and the trusted geobuck credit
// operation.
type PlayerHandler struct {
	engine *engine.Engine
	log    *slog.Logger
}

func NewPlayerHandler(eng *engine.Engine, log *slog.Logger) *PlayerHandler {
	return &PlayerHandler{engine: eng, log: log}
}

// Status handles GET /v1/player
func (h *PlayerHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, http.StatusOK, h.engine.Player())
}

// BuyGeobucks handles POST /v1/player/geobucks?amount=..
// A trusted internal credit; no payment processor is involved.
func (h *PlayerHandler) BuyGeobucks(w http.ResponseWriter, r *http.Request) {
	amount, err := strconv.Atoi(r.URL.Query().Get("amount"))
	if err != nil || amount <= 0 {
		writeError(w, h.log, http.StatusBadRequest, "amount must be a positive integer")
		return
	}

	if err := h.engine.BuyGeobucks(amount); err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, map[string]any{"ok": true, "player": h.engine.Player()})
}
