package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the weather diary service configuration.
// Environment variables are parsed from the WEATHER_DIARY_ prefix,
// e.g. WEATHER_DIARY_OPENWEATHER_API_KEY.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	// OpenWeatherMap API key, used for both geocoding and current weather.
	OpenWeatherAPIKey string `envconfig:"OPENWEATHER_API_KEY" required:"true"`

	// City whose weather annotates diary entries.
	City string `envconfig:"CITY" default:"seoul"`

	// SQLite database path.
	DBPath string `envconfig:"DB_PATH" default:"data/weather-diary.db"`

	// Timeout for outbound weather API calls.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`

	// Local wall-clock time ("HH:MM") of the daily weather refresh.
	RefreshAt string `envconfig:"REFRESH_AT" default:"01:00"`
}

// Load reads configuration from the environment, honouring a local .env
// file when present.
func Load() (*Config, error) {
	// A missing .env file is fine; real environments set variables directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("WEATHER_DIARY", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	return &cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}
