package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ytsaryk/geoquest/internal/config"
	"github.com/ytsaryk/geoquest/internal/engine"
	"github.com/ytsaryk/geoquest/internal/handlers"
	"github.com/ytsaryk/geoquest/internal/logger"
	"github.com/ytsaryk/geoquest/internal/services"
	"github.com/ytsaryk/geoquest/pkg/player"
	"github.com/ytsaryk/geoquest/pkg/quest"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logg := logger.Setup(cfg)

	logg.Info("Starting GeoQuest API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"model_name", cfg.OpenAIModel)

	zones, err := quest.LoadZones(filepath.Join(cfg.DataDir, "zones.yaml"))
	if err != nil {
		logg.Error("Failed to load zones", "error", err)
		os.Exit(1)
	}
	achievements, err := player.LoadAchievements(filepath.Join(cfg.DataDir, "achievements.yaml"))
	if err != nil {
		logg.Error("Failed to load achievements", "error", err)
		os.Exit(1)
	}
	shop, err := player.LoadShop(filepath.Join(cfg.DataDir, "shop.yaml"))
	if err != nil {
		logg.Error("Failed to load shop", "error", err)
		os.Exit(1)
	}
	logg.Info("Reference data loaded", "zones", len(zones), "achievements", len(achievements), "shop_items", len(shop))

	if cfg.OpenAIAPIKey == "" {
		logg.Error("OpenAI API key is required")
		os.Exit(1)
	}
	var narrator services.Narrator = services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.NarratorTimeout)
	var discovery services.Discovery = services.NewOverpassService(cfg.DiscoveryTimeout, logg)
	var weatherSvc services.WeatherService = services.NewOpenMeteoService(cfg.CopernicusToken, cfg.WeatherTimeout, cfg.AirTimeout, logg)
	if cfg.CopernicusToken == "" {
		logg.Warn("COPERNICUS_TOKEN not set, air quality disabled")
	}

	var leaderboard services.Leaderboard
	if cfg.RedisURL != "" {
		lb, err := services.NewRedisLeaderboard(cfg.RedisURL, logg)
		if err != nil {
			logg.Error("Failed to configure leaderboard", "error", err)
			os.Exit(1)
		}
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := lb.Ping(pingCtx); err != nil {
			logg.Warn("Leaderboard not reachable at startup, continuing degraded", "error", err)
		}
		pingCancel()
		leaderboard = lb
		defer func() { _ = lb.Close() }()
	}

	catalog := engine.NewCatalog(zones)
	ledger := player.NewLedger(cfg.PlayerName, achievements)
	eng := engine.New(logg, discovery, narrator, weatherSvc, leaderboard, catalog, ledger, achievements, shop)

	renderer := services.NewQRRenderer(256)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handlers.Routes(eng, renderer, leaderboard, logg),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logg.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logg.Info("Server exited")
}
