// Command validate performs end-to-end data integrity checks between the
// source Unfallatlas CSV files and the merged pedestrian-accident output.
// It re-runs the domain transformation over the source rows and verifies
// filter correctness, completeness, deduplication, and coordinate fidelity.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -source-dir data/input \
//	  -merged data/output/PedestrianAccidents_2019_2023.csv \
//	  -year-start 2019 -year-end 2023
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"accident-hotspots/internal/adapter/csvfile"
	"accident-hotspots/internal/domain"
)

// coordTolerance covers the six-decimal rounding applied when writing the
// merged file.
const coordTolerance = 1e-5

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	sourceDir := flag.String("source-dir", "", "directory containing source Unfallatlas CSV files")
	merged := flag.String("merged", "", "path to the merged pedestrian-accident CSV")
	yearStart := flag.Int("year-start", 2019, "first year to validate")
	yearEnd := flag.Int("year-end", 2023, "last year to validate")
	flag.Parse()

	if *sourceDir == "" || *merged == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*sourceDir, *merged, *yearStart, *yearEnd); code != 0 {
		os.Exit(code)
	}
}

func run(sourceDir, mergedPath string, yearStart, yearEnd int) int {
	fmt.Println("=== Accident Data Integrity Validation ===")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	source := csvfile.NewSource(sourceDir, yearStart, yearEnd, logger)

	expected, sourceRows, err := replayPipeline(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: replay source files: %v\n", err)
		return 1
	}

	mergedRecords, skipped, err := csvfile.ReadMerged(mergedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load merged CSV: %v\n", err)
		return 1
	}
	if skipped > 0 {
		fmt.Printf("  Note: %d merged row(s) had unusable coordinates\n", skipped)
	}

	phases := []*phase{
		validateCompleteness(expected, mergedRecords),
		validateNoExtras(expected, mergedRecords),
		validateCoordinates(expected, mergedRecords),
		validateSchema(mergedRecords),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-44s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d source rows, %d expected after filtering, %d merged\n",
		sourceRows, len(expected), len(mergedRecords))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// replayPipeline re-runs filtering, parsing, and deduplication over the
// source files and returns the expected merged records keyed by ID, plus the
// total source row count.
func replayPipeline(source *csvfile.Source) (map[string]domain.Accident, int, error) {
	files, err := source.Discover()
	if err != nil {
		return nil, 0, err
	}

	expected := make(map[string]domain.Accident)
	total := 0
	for _, file := range files {
		rows, err := source.Read(file)
		if err != nil {
			return nil, 0, err
		}
		total += len(rows)
		for _, row := range rows {
			if !row.PedestrianInvolved() {
				continue
			}
			accident, err := domain.ParseRow(row)
			if err != nil {
				continue
			}
			if _, dup := expected[accident.ID]; dup {
				continue
			}
			expected[accident.ID] = accident
		}
	}
	return expected, total, nil
}

// ── Phase 1: Completeness ──
// Every expected record appears in the merged output exactly once.

func validateCompleteness(expected map[string]domain.Accident, merged []domain.Accident) *phase {
	p := &phase{name: "Phase 1: Completeness (no silent loss)"}

	counts := map[string]int{}
	for _, m := range merged {
		counts[m.ID]++
	}

	for id := range expected {
		switch counts[id] {
		case 0:
			p.errorf("expected record %s missing from merged output", id)
		case 1:
			// exactly once, as required
		default:
			p.errorf("record %s appears %d times in merged output", id, counts[id])
		}
	}
	return p
}

// ── Phase 2: No Extras ──
// Nothing in the merged output lacks a matching source record; this catches
// non-pedestrian leakage and stale rows from earlier runs.

func validateNoExtras(expected map[string]domain.Accident, merged []domain.Accident) *phase {
	p := &phase{name: "Phase 2: No Extras (filter correctness)"}

	for i, m := range merged {
		if m.ID == "" {
			p.errorf("merged row %d: missing ID", i)
			continue
		}
		if _, ok := expected[m.ID]; !ok {
			p.errorf("merged row %d: ID %s has no matching pedestrian source record", i, m.ID)
		}
	}
	return p
}

// ── Phase 3: Coordinate Fidelity ──

func validateCoordinates(expected map[string]domain.Accident, merged []domain.Accident) *phase {
	p := &phase{name: "Phase 3: Coordinate Fidelity"}

	for _, m := range merged {
		want, ok := expected[m.ID]
		if !ok {
			continue // reported by phase 2
		}
		if math.Abs(m.Geo.Lat-want.Geo.Lat) > coordTolerance ||
			math.Abs(m.Geo.Lon-want.Geo.Lon) > coordTolerance {
			p.errorf("record %s: coordinates (%.6f, %.6f) differ from source (%.6f, %.6f)",
				m.ID, m.Geo.Lat, m.Geo.Lon, want.Geo.Lat, want.Geo.Lon)
		}
	}
	return p
}

// ── Phase 4: Schema ──

var validSeverities = map[string]bool{"fatal": true, "serious": true, "slight": true, "": true}

func validateSchema(merged []domain.Accident) *phase {
	p := &phase{name: "Phase 4: Schema (merged output)"}

	for i, m := range merged {
		if m.Year < 2000 || m.Year > 2100 {
			p.errorf("row %d (%s): implausible year %d", i, m.ID, m.Year)
		}
		if m.Month < 1 || m.Month > 12 {
			p.errorf("row %d (%s): month %d out of range", i, m.ID, m.Month)
		}
		if m.Hour < 0 || m.Hour > 23 {
			p.errorf("row %d (%s): hour %d out of range", i, m.ID, m.Hour)
		}
		if !validSeverities[m.Severity] {
			p.errorf("row %d (%s): severity %q not in {fatal, serious, slight}", i, m.ID, m.Severity)
		}
	}
	return p
}
