// Package csvfile reads the provider's yearly Unfallatlas CSV extracts and
// reads/writes the merged pedestrian-accident CSV.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"accident-hotspots/internal/domain"
)

// sourceGlob is the provider's file naming convention, e.g.
// Unfallorte2019_LinRef.csv.
const sourceGlob = "Unfallorte*_LinRef.csv"

var fileYearRe = regexp.MustCompile(`(\d{4})`)

// Source column names, owned by the data provider.
const (
	colObjectID     = "OBJECTID"
	colYear         = "UJAHR"
	colMonth        = "UMONAT"
	colHour         = "USTUNDE"
	colWeekday      = "UWOCHENTAG"
	colCategory     = "UKATEGORIE"
	colKind         = "UART"
	colIsPedestrian = "IstFuss"
	colLinRefX      = "LINREFX"
	colLinRefY      = "LINREFY"
	colLonWGS84     = "XGCSWGS84"
	colLatWGS84     = "YGCSWGS84"
)

// requiredColumns must all be present in a source header. A missing column is
// a schema error and aborts the run; guessing columns risks corrupting the
// merged dataset.
var requiredColumns = []string{
	colYear, colMonth, colHour, colWeekday, colCategory,
	colIsPedestrian, colLonWGS84, colLatWGS84,
}

// Source discovers and reads yearly extracts from an input directory,
// restricted to a year range.
type Source struct {
	dir       string
	yearStart int
	yearEnd   int
	logger    *slog.Logger
}

// NewSource creates a Source over dir for years [yearStart, yearEnd].
func NewSource(dir string, yearStart, yearEnd int, logger *slog.Logger) *Source {
	return &Source{dir: dir, yearStart: yearStart, yearEnd: yearEnd, logger: logger}
}

// Discover lists the yearly extracts in the input directory, sorted by year.
// Years in range with no matching file are logged as warnings; a missing or
// unreadable directory is an error.
func (s *Source) Discover() ([]domain.SourceFile, error) {
	if _, err := os.Stat(s.dir); err != nil {
		return nil, fmt.Errorf("input directory %s: %w", s.dir, err)
	}

	matches, err := filepath.Glob(filepath.Join(s.dir, sourceGlob))
	if err != nil {
		return nil, fmt.Errorf("scan input directory %s: %w", s.dir, err)
	}

	byYear := make(map[int]string)
	for _, path := range matches {
		year, ok := yearFromFilename(filepath.Base(path))
		if !ok {
			s.logger.Warn("skipping file without a recognizable year", "file", path)
			continue
		}
		if year < s.yearStart || year > s.yearEnd {
			continue
		}
		byYear[year] = path
	}

	var files []domain.SourceFile
	for year := s.yearStart; year <= s.yearEnd; year++ {
		path, ok := byYear[year]
		if !ok {
			s.logger.Warn("no accident data file found for year", "year", year)
			continue
		}
		files = append(files, domain.SourceFile{Path: path, Year: year})
	}

	return files, nil
}

// Read parses one yearly extract into raw rows. The file is
// semicolon-delimited; ragged rows are tolerated here and rejected later at
// parse time so they are counted, not silently dropped.
func (s *Source) Read(file domain.SourceFile) ([]domain.RawRow, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file.Path, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%s: empty file, no header", file.Path)
	}

	colIdx, err := indexHeader(all[0], requiredColumns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file.Path, err)
	}

	field := func(record []string, name string) string {
		idx, ok := colIdx[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	rows := make([]domain.RawRow, 0, len(all)-1)
	for i, record := range all[1:] {
		rows = append(rows, domain.RawRow{
			ObjectID:     field(record, colObjectID),
			Year:         field(record, colYear),
			Month:        field(record, colMonth),
			Hour:         field(record, colHour),
			Weekday:      field(record, colWeekday),
			Category:     field(record, colCategory),
			Kind:         field(record, colKind),
			IsPedestrian: field(record, colIsPedestrian),
			LinRefX:      field(record, colLinRefX),
			LinRefY:      field(record, colLinRefY),
			LonWGS84:     field(record, colLonWGS84),
			LatWGS84:     field(record, colLatWGS84),
			SourceFile:   filepath.Base(file.Path),
			Line:         i + 2,
		})
	}

	return rows, nil
}

// indexHeader maps column names to positions and verifies the required set.
func indexHeader(header []string, required []string) (map[string]int, error) {
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[h] = i
	}

	var missing []string
	for _, name := range required {
		if _, ok := colIdx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("schema error: missing required columns %v", missing)
	}
	return colIdx, nil
}

// yearFromFilename extracts the four-digit year from a provider filename.
func yearFromFilename(name string) (int, bool) {
	m := fileYearRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return year, true
}
