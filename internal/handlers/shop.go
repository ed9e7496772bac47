package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ytsaryk/geoquest/internal/engine"
)

// ShopHandler serves the item catalog and purchases. Items are inert:
// buying one only moves geobucks and records ownership.
type ShopHandler struct {
	engine *engine.Engine
	log    *slog.Logger
}

func NewShopHandler(eng *engine.Engine, log *slog.Logger) *ShopHandler {
	return &ShopHandler{engine: eng, log: log}
}

// List handles GET /v1/shop
func (h *ShopHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, http.StatusOK, map[string]any{"items": h.engine.Shop()})
}

// Buy handles POST /v1/shop/buy?item=..
func (h *ShopHandler) Buy(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("item")
	if name == "" {
		writeError(w, h.log, http.StatusBadRequest, "item query parameter is required")
		return
	}

	if err := h.engine.BuyItem(name); err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, map[string]any{"ok": true, "player": h.engine.Player()})
}
