package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ytsaryk/geoquest/internal/engine"
	"github.com/ytsaryk/geoquest/internal/middleware"
	"github.com/ytsaryk/geoquest/internal/services"
)

// Routes builds the full HTTP surface of the engine.
func Routes(eng *engine.Engine, renderer services.TokenRenderer, leaderboard services.Leaderboard, log *slog.Logger) http.Handler {
	quests := NewQuestHandler(eng, log)
	zones := NewZoneHandler(eng, renderer, log)
	playerH := NewPlayerHandler(eng, log)
	achievements := NewAchievementHandler(eng, log)
	shop := NewShopHandler(eng, log)
	board := NewLeaderboardHandler(eng, log)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler { return middleware.Logger(log, next) })
	r.Use(middleware.CORS)

	r.Method(http.MethodGet, "/health", NewHealthHandler(leaderboard, log))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/quests/generate", quests.Generate)
		r.Get("/quests", quests.List)
		r.Post("/quests/active", quests.SetActive)
		r.Post("/quests/active/complete", quests.CompleteActive)
		r.Get("/quests/{id}/weather", quests.CheckWeather)

		r.Get("/zones/scan", zones.Scan)
		r.Get("/zones/complete", zones.CompleteByToken)
		r.Get("/zones/qr", zones.ZoneQR)
		r.Get("/zones/quest-qr", zones.QuestQR)

		r.Get("/player", playerH.Status)
		r.Post("/player/geobucks", playerH.BuyGeobucks)

		r.Get("/achievements", achievements.List)
		r.Post("/achievements/{id}/unlock", achievements.Unlock)

		r.Get("/shop", shop.List)
		r.Post("/shop/buy", shop.Buy)

		r.Get("/leaderboard", board.Top)
	})

	return r
}
