// Package pipeline orchestrates the merge of yearly accident extracts into
// one normalized pedestrian-accident dataset.
package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"accident-hotspots/internal/domain"
	"accident-hotspots/internal/observability"
)

// Extractor discovers and reads yearly source files.
type Extractor interface {
	Discover() ([]domain.SourceFile, error)
	Read(file domain.SourceFile) ([]domain.RawRow, error)
}

// Loader persists the merged dataset.
type Loader interface {
	WriteMerged(accidents []domain.Accident) error
}

// FileStats tallies row dispositions for one source file.
// Read always equals Kept + Rejected().
type FileStats struct {
	File       string
	Year       int
	Read       int
	Kept       int
	Filtered   int // non-pedestrian rows
	Invalid    int // missing or unparsable fields
	Duplicates int // ID already merged from an earlier file
}

// Rejected is the number of read rows that did not reach the output.
func (s FileStats) Rejected() int {
	return s.Filtered + s.Invalid + s.Duplicates
}

// Summary aggregates stats across all processed files.
type Summary struct {
	Files      []FileStats
	Read       int
	Kept       int
	Filtered   int
	Invalid    int
	Duplicates int
}

// Rejected is the total of rows that did not reach the output.
func (s Summary) Rejected() int {
	return s.Filtered + s.Invalid + s.Duplicates
}

// Pipeline runs the extract-filter-normalize-merge pass.
type Pipeline struct {
	extractor Extractor
	loader    Loader
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, l Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor: e,
		loader:    l,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run processes all discovered source files in one pass and writes the
// merged output. Row-level problems are counted and logged, never fatal;
// I/O and schema problems abort the run.
func (p *Pipeline) Run() (Summary, error) {
	start := time.Now()

	files, err := p.extractor.Discover()
	if err != nil {
		return Summary{}, fmt.Errorf("discover input files: %w", err)
	}
	p.logger.Info("starting merge", "files", len(files))

	var summary Summary
	seen := make(map[string]struct{})
	var merged []domain.Accident

	for _, file := range files {
		stats, accidents, err := p.processFile(file, seen)
		if err != nil {
			return Summary{}, err
		}

		merged = append(merged, accidents...)
		summary.Files = append(summary.Files, stats)
		summary.Read += stats.Read
		summary.Kept += stats.Kept
		summary.Filtered += stats.Filtered
		summary.Invalid += stats.Invalid
		summary.Duplicates += stats.Duplicates
		p.metrics.FilesProcessed.Inc()

		p.logger.Info("processed file",
			"file", stats.File,
			"year", stats.Year,
			"read", stats.Read,
			"kept", stats.Kept,
			"filtered", stats.Filtered,
			"invalid", stats.Invalid,
			"duplicates", stats.Duplicates,
		)
	}

	if err := p.loader.WriteMerged(merged); err != nil {
		return Summary{}, fmt.Errorf("write merged output: %w", err)
	}

	elapsed := time.Since(start)
	p.metrics.RunDuration.Observe(elapsed.Seconds())

	if summary.Kept == 0 {
		p.logger.Warn("no pedestrian accidents in merged output")
	}
	p.logger.Info("merge complete",
		"files", len(summary.Files),
		"read", summary.Read,
		"kept", summary.Kept,
		"rejected", summary.Rejected(),
		"elapsed", elapsed,
	)

	return summary, nil
}

// processFile reads one yearly extract and applies the pedestrian filter,
// normalization, and cross-file deduplication.
func (p *Pipeline) processFile(file domain.SourceFile, seen map[string]struct{}) (FileStats, []domain.Accident, error) {
	rows, err := p.extractor.Read(file)
	if err != nil {
		return FileStats{}, nil, fmt.Errorf("read %s: %w", file.Path, err)
	}

	stats := FileStats{File: file.Path, Year: file.Year, Read: len(rows)}
	var accidents []domain.Accident

	for _, row := range rows {
		p.metrics.RowsRead.Inc()

		if !row.PedestrianInvolved() {
			stats.Filtered++
			p.metrics.RowsFiltered.Inc()
			continue
		}

		accident, err := domain.ParseRow(row)
		if err != nil {
			stats.Invalid++
			p.metrics.RowsInvalid.Inc()
			p.logger.Debug("skipping row",
				"file", row.SourceFile,
				"line", row.Line,
				"error", err,
			)
			continue
		}

		if _, dup := seen[accident.ID]; dup {
			stats.Duplicates++
			p.metrics.DuplicatesSkipped.Inc()
			continue
		}
		seen[accident.ID] = struct{}{}

		accidents = append(accidents, accident)
		stats.Kept++
		p.metrics.RowsKept.Inc()
	}

	return stats, accidents, nil
}
