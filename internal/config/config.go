package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port          string        `env:"PORT" envDefault:"3000"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	CardsFile     string        `env:"CARDS_FILE"`
	GameOverDelay time.Duration `env:"GAME_OVER_DELAY" envDefault:"8s"`
	ExportEnabled bool          `env:"EXPORT_ENABLED" envDefault:"false"`
	ExportFile    string        `env:"EXPORT_FILE" envDefault:"./tefuda-results.txt"`
	CORSOrigin    string        `env:"CORS_ORIGIN" envDefault:"*"`
}

func FromEnv() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if c.GameOverDelay < 0 {
		return Config{}, fmt.Errorf("GAME_OVER_DELAY must not be negative, got %s", c.GameOverDelay)
	}
	return c, nil
}
