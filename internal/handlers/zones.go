package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ytsaryk/geoquest/internal/engine"
	"github.com/ytsaryk/geoquest/internal/services"
)

// ZoneHandler serves zone scanning, token-gated completion and
// check-in token images.
type ZoneHandler struct {
	engine   *engine.Engine
	renderer services.TokenRenderer
	log      *slog.Logger
}

func NewZoneHandler(eng *engine.Engine, renderer services.TokenRenderer, log *slog.Logger) *ZoneHandler {
	return &ZoneHandler{engine: eng, renderer: renderer, log: log}
}

// Scan handles GET /v1/zones/scan?code=..
func (h *ZoneHandler) Scan(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, h.log, http.StatusBadRequest, "code query parameter is required")
		return
	}

	scan, err := h.engine.ScanZone(r.Context(), code)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, scan)
}

// CompleteByToken handles GET /v1/zones/complete?token=..&lat=..&lon=..
func (h *ZoneHandler) CompleteByToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, h.log, http.StatusBadRequest, "token query parameter is required")
		return
	}
	lat, lon, ok := parseCoords(r)
	if !ok {
		writeError(w, h.log, http.StatusBadRequest, "lat and lon query parameters are required")
		return
	}

	result, err := h.engine.CompleteByToken(r.Context(), token, lat, lon)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, result)
}

// ZoneQR handles GET /v1/zones/qr?code=..
func (h *ZoneHandler) ZoneQR(w http.ResponseWriter, r *http.Request) {
	payload, err := h.engine.ZoneTokenPayload(r.URL.Query().Get("code"))
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	h.writePNG(w, payload)
}

// QuestQR handles GET /v1/zones/quest-qr?token=..
func (h *ZoneHandler) QuestQR(w http.ResponseWriter, r *http.Request) {
	payload, err := h.engine.QuestTokenPayload(r.URL.Query().Get("token"))
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	h.writePNG(w, payload)
}

func (h *ZoneHandler) writePNG(w http.ResponseWriter, payload string) {
	png, err := h.renderer.RenderPNG(payload)
	if err != nil {
		h.log.Error("Failed to render token image", "error", err)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to render token image")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.log.Error("Failed to write token image", "error", err)
	}
}
