package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Default year range, matching the Unfallatlas extracts this project was
// built around. Overridable via YEAR_START / YEAR_END.
const (
	defaultYearStart = 2019
	defaultYearEnd   = 2023
)

// Config holds all pipeline settings, populated from environment variables.
// Path-type flags on the individual commands override the corresponding
// fields after Load.
type Config struct {
	InputDir  string
	OutputDir string
	YearStart int
	YearEnd   int

	LogLevel  string
	LogFormat string

	// Map rendering configuration.
	MapZoom    int
	HeatRadius int
	// MaxMarkers caps the clustered marker layer; datasets above the cap
	// render as heat only so the HTML stays loadable in a browser.
	MaxMarkers int

	// PushgatewayURL enables pushing run metrics to a Prometheus
	// Pushgateway when non-empty. Batch runs exit too quickly to scrape.
	PushgatewayURL string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	yearStart, err := envOrDefaultInt("YEAR_START", defaultYearStart)
	if err != nil {
		return nil, err
	}
	yearEnd, err := envOrDefaultInt("YEAR_END", defaultYearEnd)
	if err != nil {
		return nil, err
	}
	mapZoom, err := envOrDefaultInt("MAP_ZOOM", 12)
	if err != nil {
		return nil, err
	}
	heatRadius, err := envOrDefaultInt("HEAT_RADIUS", 10)
	if err != nil {
		return nil, err
	}
	maxMarkers, err := envOrDefaultInt("MAP_MAX_MARKERS", 20000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		InputDir:       envOrDefault("INPUT_DIR", "data/input"),
		OutputDir:      envOrDefault("OUTPUT_DIR", "data/output"),
		YearStart:      yearStart,
		YearEnd:        yearEnd,
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		LogFormat:      envOrDefault("LOG_FORMAT", "text"),
		MapZoom:        mapZoom,
		HeatRadius:     heatRadius,
		MaxMarkers:     maxMarkers,
		PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),
	}

	if cfg.YearStart > cfg.YearEnd {
		return nil, fmt.Errorf("YEAR_START %d is after YEAR_END %d", cfg.YearStart, cfg.YearEnd)
	}
	if cfg.MapZoom < 1 || cfg.MapZoom > 19 {
		return nil, errors.New("MAP_ZOOM must be between 1 and 19")
	}
	if cfg.HeatRadius < 1 {
		return nil, errors.New("HEAT_RADIUS must be positive")
	}
	if cfg.MaxMarkers < 0 {
		return nil, errors.New("MAP_MAX_MARKERS must not be negative")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
