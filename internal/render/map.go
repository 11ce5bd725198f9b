// Package render turns the merged accident dataset into a self-contained
// interactive Leaflet map: a heat layer for hotspot density plus clustered
// markers for individual records.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"accident-hotspots/internal/domain"
)

//go:embed map.tmpl.html
var templateFS embed.FS

var mapTemplate = template.Must(template.ParseFS(templateFS, "map.tmpl.html"))

// Default map center when the dataset is empty: Berlin.
const (
	defaultCenterLat = 52.52
	defaultCenterLon = 13.405
)

// Point is one plotted accident. Serialized into the map HTML as JSON.
type Point struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Year     int     `json:"year"`
	Severity string  `json:"severity,omitempty"`
}

// Options controls map appearance.
type Options struct {
	Title      string
	Zoom       int
	HeatRadius int
	// MaxMarkers caps the clustered marker layer. Datasets larger than the
	// cap render as heat only so the HTML stays responsive in a browser.
	MaxMarkers int
}

type templateData struct {
	Title       string
	CenterLat   float64
	CenterLon   float64
	Zoom        int
	HeatRadius  int
	ShowMarkers bool
	Points      []Point
}

// FromAccidents converts merged records into plottable points.
func FromAccidents(accidents []domain.Accident) []Point {
	points := make([]Point, 0, len(accidents))
	for _, a := range accidents {
		points = append(points, Point{
			Lat:      a.Geo.Lat,
			Lon:      a.Geo.Lon,
			Year:     a.Year,
			Severity: a.Severity,
		})
	}
	return points
}

// Render writes the map HTML for the given points. An empty dataset renders
// a valid map centered on the default location with no layers populated.
func Render(w io.Writer, points []Point, opts Options) error {
	if points == nil {
		points = []Point{}
	}
	if opts.Title == "" {
		opts.Title = "Pedestrian Accident Hotspots"
	}
	if opts.Zoom == 0 {
		opts.Zoom = 12
	}
	if opts.HeatRadius == 0 {
		opts.HeatRadius = 10
	}

	lat, lon := center(points)
	data := templateData{
		Title:       opts.Title,
		CenterLat:   lat,
		CenterLon:   lon,
		Zoom:        opts.Zoom,
		HeatRadius:  opts.HeatRadius,
		ShowMarkers: len(points) > 0 && len(points) <= opts.MaxMarkers,
		Points:      points,
	}
	if err := mapTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	return nil
}

// WriteFile renders the map to path, creating parent directories as needed.
// A zero-point dataset is a warning, not an error.
func WriteFile(path string, points []Point, opts Options, logger *slog.Logger) error {
	if len(points) == 0 {
		logger.Warn("rendering map with zero points")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := Render(f, points, opts); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// center returns the mean coordinate of the points, or the default center
// for an empty dataset.
func center(points []Point) (float64, float64) {
	if len(points) == 0 {
		return defaultCenterLat, defaultCenterLon
	}
	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}
	n := float64(len(points))
	return sumLat / n, sumLon / n
}
