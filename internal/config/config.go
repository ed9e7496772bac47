package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, parsed from the environment.
type Config struct {
	Port        string     `env:"PORT" envDefault:"8080"`
	Environment string     `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	DataDir    string `env:"DATA_DIR" envDefault:"./data"`
	PlayerName string `env:"PLAYER_NAME" envDefault:"Explorer"`

	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIModel     string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	CopernicusToken string `env:"COPERNICUS_TOKEN"`

	// RedisURL enables the leaderboard mirror when set. Empty disables it.
	RedisURL string `env:"REDIS_URL"`

	DiscoveryTimeout time.Duration `env:"DISCOVERY_TIMEOUT" envDefault:"15s"`
	WeatherTimeout   time.Duration `env:"WEATHER_TIMEOUT" envDefault:"10s"`
	AirTimeout       time.Duration `env:"AIR_TIMEOUT" envDefault:"45s"`
	NarratorTimeout  time.Duration `env:"NARRATOR_TIMEOUT" envDefault:"30s"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
