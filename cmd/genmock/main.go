// Command genmock generates synthetic Unfallatlas-format CSV files for
// local development and manual pipeline testing. The files follow the
// provider's conventions (semicolon delimiter, decimal commas, yearly
// file naming) and include a configurable share of non-pedestrian and
// broken rows so filter and reject counting can be exercised end to end.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data/input -rows 500 -seed 1
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"accident-hotspots/internal/domain"
)

// header mirrors the provider's published column order.
var header = []string{
	"OBJECTID", "ULAND", "UREGBEZ", "UKREIS", "UGEMEINDE",
	"UJAHR", "UMONAT", "USTUNDE", "UWOCHENTAG", "UKATEGORIE",
	"UART", "UTYP1", "ULICHTVERH",
	"IstRad", "IstPKW", "IstFuss", "IstKrad", "IstGkfz", "IstSonstige",
	"LINREFX", "LINREFY", "XGCSWGS84", "YGCSWGS84",
}

// city anchors points around plausible German urban centers.
type city struct {
	name     string
	lat, lon float64
}

var cities = []city{
	{"Berlin", 52.5200, 13.4050},
	{"Hamburg", 53.5511, 9.9937},
	{"Munich", 48.1351, 11.5820},
	{"Cologne", 50.9375, 6.9603},
	{"Frankfurt", 50.1109, 8.6821},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "data/input", "directory to write Unfallorte<YEAR>_LinRef.csv files into")
	rows := flag.Int("rows", 500, "data rows per yearly file")
	yearStart := flag.Int("year-start", 2019, "first year to generate")
	yearEnd := flag.Int("year-end", 2023, "last year to generate")
	seed := flag.Int64("seed", 1, "random seed, fixed for reproducible fixtures")
	pedestrianShare := flag.Float64("pedestrian-share", 0.3, "fraction of rows with IstFuss=1")
	brokenShare := flag.Float64("broken-share", 0.02, "fraction of rows with unusable coordinates")
	flag.Parse()

	if *rows <= 0 {
		return fmt.Errorf("-rows must be positive")
	}
	if *yearStart > *yearEnd {
		return fmt.Errorf("-year-start %d is after -year-end %d", *yearStart, *yearEnd)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	for year := *yearStart; year <= *yearEnd; year++ {
		path := filepath.Join(*outDir, fmt.Sprintf("Unfallorte%d_LinRef.csv", year))
		kept, err := writeYear(path, year, *rows, *pedestrianShare, *brokenShare, rng)
		if err != nil {
			return fmt.Errorf("generate %s: %w", path, err)
		}
		log.Printf("%s: %d rows (%d pedestrian with valid coordinates)", path, *rows, kept)
	}

	return nil
}

// writeYear writes one yearly file and returns how many rows a correct
// pipeline run should keep from it.
func writeYear(path string, year, rows int, pedestrianShare, brokenShare float64, rng *rand.Rand) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	if err := w.Write(header); err != nil {
		return 0, err
	}

	kept := 0
	for i := 0; i < rows; i++ {
		pedestrian := rng.Float64() < pedestrianShare
		broken := rng.Float64() < brokenShare

		record, row := makeRow(i+1, year, pedestrian, broken, rng)
		if err := w.Write(record); err != nil {
			return 0, err
		}

		if !pedestrian || broken {
			continue
		}
		// Sanity check: the generated row must survive the real parser.
		if _, err := domain.ParseRow(row); err != nil {
			return 0, fmt.Errorf("generated row %d does not parse: %w", i+1, err)
		}
		kept++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return 0, err
	}
	return kept, f.Close()
}

func makeRow(id, year int, pedestrian, broken bool, rng *rand.Rand) ([]string, domain.RawRow) {
	c := cities[rng.Intn(len(cities))]
	// Jitter within roughly +-5km of the city center.
	lat := c.lat + (rng.Float64()-0.5)*0.09
	lon := c.lon + (rng.Float64()-0.5)*0.14

	latStr := decimalComma(lat)
	lonStr := decimalComma(lon)
	if broken {
		latStr, lonStr = "", ""
	}

	pedFlag := "0"
	if pedestrian {
		pedFlag = "1"
	}

	month := strconv.Itoa(1 + rng.Intn(12))
	hour := strconv.Itoa(rng.Intn(24))
	weekday := strconv.Itoa(1 + rng.Intn(7))
	category := strconv.Itoa(1 + rng.Intn(3))

	record := []string{
		strconv.Itoa(id), "11", "0", "0", "1",
		strconv.Itoa(year), month, hour, weekday, category,
		strconv.Itoa(1 + rng.Intn(9)), "0", strconv.Itoa(rng.Intn(3)),
		"0", "1", pedFlag, "0", "0", "0",
		"", "", lonStr, latStr,
	}

	row := domain.RawRow{
		ObjectID:     strconv.Itoa(id),
		Year:         strconv.Itoa(year),
		Month:        month,
		Hour:         hour,
		Weekday:      weekday,
		Category:     category,
		IsPedestrian: pedFlag,
		LonWGS84:     lonStr,
		LatWGS84:     latStr,
	}
	return record, row
}

// decimalComma formats a coordinate the way the provider does.
func decimalComma(v float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(v, 'f', 5, 64), ".", ",")
}
