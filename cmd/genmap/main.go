// Command genmap renders the merged pedestrian-accident CSV as an
// interactive hotspot map in a single HTML file.
//
// Usage:
//
//	go run ./cmd/genmap \
//	  -input data/output/PedestrianAccidents_2019_2023.csv \
//	  -output data/output/hotspots_map.html
//
// An empty input dataset produces a valid map with zero markers and a
// warning; it is not an error.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"accident-hotspots/internal/adapter/csvfile"
	"accident-hotspots/internal/config"
	"accident-hotspots/internal/observability"
	"accident-hotspots/internal/render"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	defaultInput := filepath.Join(cfg.OutputDir,
		fmt.Sprintf("PedestrianAccidents_%d_%d.csv", cfg.YearStart, cfg.YearEnd))
	input := flag.String("input", defaultInput, "path of the merged accident CSV")
	output := flag.String("output", filepath.Join(cfg.OutputDir, "hotspots_map.html"), "path of the map HTML file")
	title := flag.String("title", "Pedestrian Accident Hotspots", "map page title")
	flag.Parse()

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	accidents, skipped, err := csvfile.ReadMerged(*input)
	if err != nil {
		logger.Error("read merged dataset failed", "error", err)
		os.Exit(1)
	}
	if skipped > 0 {
		logger.Warn("skipped rows with unusable coordinates", "skipped", skipped)
	}

	points := render.FromAccidents(accidents)
	opts := render.Options{
		Title:      *title,
		Zoom:       cfg.MapZoom,
		HeatRadius: cfg.HeatRadius,
		MaxMarkers: cfg.MaxMarkers,
	}
	if err := render.WriteFile(*output, points, opts, logger); err != nil {
		logger.Error("render map failed", "error", err)
		os.Exit(1)
	}

	metrics.MapPoints.Set(float64(len(points)))
	if len(points) <= cfg.MaxMarkers {
		metrics.MapMarkers.Set(float64(len(points)))
	}
	if err := metrics.Push(cfg.PushgatewayURL, "accident-genmap"); err != nil {
		logger.Warn("metrics push failed", "error", err)
	}

	logger.Info("map written", "path", *output, "points", len(points))
}
