package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ytsaryk/geoquest/internal/engine"
	"github.com/ytsaryk/geoquest/pkg/player"
)

// ErrorResponse is the envelope for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, log *slog.Logger, status int, message string) {
	writeJSON(w, log, status, ErrorResponse{Error: message})
}

// writeDomainError maps engine errors to the outcome envelope:
// not-found and invalid-state are structured responses, never 5xx.
func writeDomainError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		writeError(w, log, http.StatusNotFound, err.Error())
	case errors.Is(err, player.ErrNoActiveQuest):
		writeError(w, log, http.StatusConflict, "No active quest to complete.")
	case errors.Is(err, player.ErrInsufficientFunds):
		writeError(w, log, http.StatusConflict, "Not enough geobucks.")
	default:
		log.Error("Unexpected engine error", "error", err)
		writeError(w, log, http.StatusInternalServerError, "Internal error. Please try again.")
	}
}
