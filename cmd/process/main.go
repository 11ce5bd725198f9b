// Command process merges the yearly Unfallatlas extracts into one normalized
// pedestrian-accident CSV.
//
// Usage:
//
//	go run ./cmd/process \
//	  -input-dir data/input \
//	  -output data/output/PedestrianAccidents_2019_2023.csv
//
// Year range, logging, and metrics push are configured via environment
// variables (see internal/config); a .env file in the working directory is
// loaded if present.
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
	"accident-hotspots/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	inputDir := flag.String("input-dir", cfg.InputDir, "directory containing Unfallorte<YEAR>_LinRef.csv files")
	output := flag.String("output", filepath.Join(cfg.OutputDir, defaultOutputName(cfg)), "path of the merged output CSV")
	flag.Parse()

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	source := csvfile.NewSource(*inputDir, cfg.YearStart, cfg.YearEnd, logger)
	writer := csvfile.NewMergedWriter(*output)

	summary, err := pipeline.New(source, writer, logger, metrics).Run()
	if err != nil {
		logger.Error("merge failed", "error", err)
		os.Exit(1)
	}

	if err := metrics.Push(cfg.PushgatewayURL, "accident-process"); err != nil {
		logger.Warn("metrics push failed", "error", err)
	}

	logger.Info("output written",
		"path", *output,
		"records", summary.Kept,
		"rejected", summary.Rejected(),
	)
}

func defaultOutputName(cfg *config.Config) string {
	return fmt.Sprintf("PedestrianAccidents_%d_%d.csv", cfg.YearStart, cfg.YearEnd)
}
