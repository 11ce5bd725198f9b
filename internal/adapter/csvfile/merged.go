package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"accident-hotspots/internal/domain"
)

// MergedHeader is the column set of the merged output file.
var MergedHeader = []string{
	"id", "year", "month", "hour", "weekday", "category", "severity",
	"latitude", "longitude",
}

// coordPrecision keeps six decimal places (~0.1m), enough that the
// round trip through the merged file stays within any mapping tolerance.
const coordPrecision = 6

// MergedWriter persists the merged dataset to a single CSV file.
type MergedWriter struct {
	path string
}

// NewMergedWriter creates a writer targeting path. Parent directories are
// created on write.
func NewMergedWriter(path string) *MergedWriter {
	return &MergedWriter{path: path}
}

// Path returns the output file path.
func (w *MergedWriter) Path() string { return w.path }

// WriteMerged writes the header and all accidents to the output file.
// An empty slice still produces a header-only file.
func (w *MergedWriter) WriteMerged(accidents []domain.Accident) error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", w.path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(MergedHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, a := range accidents {
		record := []string{
			a.ID,
			strconv.Itoa(a.Year),
			strconv.Itoa(a.Month),
			strconv.Itoa(a.Hour),
			strconv.Itoa(a.Weekday),
			strconv.Itoa(a.Category),
			a.Severity,
			strconv.FormatFloat(a.Geo.Lat, 'f', coordPrecision, 64),
			strconv.FormatFloat(a.Geo.Lon, 'f', coordPrecision, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record %s: %w", a.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", w.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", w.path, err)
	}
	return nil
}

// ReadMerged reads a merged CSV back into accidents for map rendering.
// Only the coordinate columns are mandatory; the remaining columns are
// carried along when present. Rows with unparsable coordinates are skipped
// and counted in the second return value.
func ReadMerged(path string) ([]domain.Accident, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	all, err := r.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, 0, fmt.Errorf("%s: empty file, no header", path)
	}

	header := normalizeMergedHeader(all[0])
	colIdx, err := indexHeader(header, []string{"latitude", "longitude"})
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}

	field := func(record []string, name string) string {
		idx, ok := colIdx[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	var accidents []domain.Accident
	skipped := 0
	for _, record := range all[1:] {
		lat, errLat := domain.ParseDecimalComma(field(record, "latitude"))
		lon, errLon := domain.ParseDecimalComma(field(record, "longitude"))
		if errLat != nil || errLon != nil {
			skipped++
			continue
		}
		accidents = append(accidents, domain.Accident{
			ID:       field(record, "id"),
			Year:     intOrZero(field(record, "year")),
			Month:    intOrZero(field(record, "month")),
			Hour:     intOrZero(field(record, "hour")),
			Weekday:  intOrZero(field(record, "weekday")),
			Category: intOrZero(field(record, "category")),
			Severity: field(record, "severity"),
			Geo:      domain.Geo{Lat: lat, Lon: lon},
		})
	}

	return accidents, skipped, nil
}

// normalizeMergedHeader tolerates a header line wrapped in single quotes,
// which some spreadsheet exports produce ('id,year,...,longitude'). The
// quotes are not CSV quoting, so the reader either keeps the line as one
// cell or splits it with a quote stuck to the first and last column names.
func normalizeMergedHeader(header []string) []string {
	if len(header) == 1 {
		header = strings.Split(header[0], ",")
	}
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}
	last := len(out) - 1
	if last >= 0 && strings.HasPrefix(out[0], "'") && strings.HasSuffix(out[last], "'") {
		out[0] = strings.TrimPrefix(out[0], "'")
		out[last] = strings.TrimSuffix(out[last], "'")
	}
	return out
}

func intOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}
