package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/im7mortal/UTM"
)

// Coordinate plausibility bounds for Germany. The dataset is national, so
// anything outside this box is a data error rather than a real location.
const (
	minLat = 47.0
	maxLat = 56.0
	minLon = 5.0
	maxLon = 16.0
)

// utmZone is the ETRS89/UTM zone covering Germany in the provider's
// linear-reference columns (EPSG:25832).
const (
	utmZoneNumber = 32
	utmZoneLetter = "U"
)

// ParseRow converts a raw source row into a normalized Accident.
// It parses the decimal-comma numeric fields, prefers the WGS84 coordinate
// columns, falls back to converting the UTM linear-reference pair when the
// WGS84 columns are missing or malformed, and rejects coordinates outside
// the plausible bounds for Germany.
func ParseRow(row RawRow) (Accident, error) {
	year, err := parseIntField("UJAHR", row.Year)
	if err != nil {
		return Accident{}, err
	}
	month, err := parseIntField("UMONAT", row.Month)
	if err != nil {
		return Accident{}, err
	}
	hour, err := parseIntField("USTUNDE", row.Hour)
	if err != nil {
		return Accident{}, err
	}
	weekday, err := parseIntField("UWOCHENTAG", row.Weekday)
	if err != nil {
		return Accident{}, err
	}
	category, err := parseIntField("UKATEGORIE", row.Category)
	if err != nil {
		return Accident{}, err
	}

	geo, geoSource, err := parseCoordinates(row)
	if err != nil {
		return Accident{}, err
	}

	return Accident{
		ID:          generateID(year, month, weekday, hour, geo),
		Year:        year,
		Month:       month,
		Hour:        hour,
		Weekday:     weekday,
		Category:    category,
		Severity:    deriveSeverity(category),
		Geo:         geo,
		GeoSource:   geoSource,
		ProcessedAt: clock.Now(),
	}, nil
}

// parseCoordinates resolves a row to a WGS84 coordinate pair.
// The XGCSWGS84/YGCSWGS84 columns are authoritative; LINREFX/LINREFY are
// converted from UTM zone 32N when the WGS84 pair is unusable, whether it
// fails to parse or parses to an implausible location.
func parseCoordinates(row RawRow) (Geo, string, error) {
	var wgsErr error
	lon, errLon := ParseDecimalComma(row.LonWGS84)
	lat, errLat := ParseDecimalComma(row.LatWGS84)
	if errLon == nil && errLat == nil {
		geo := Geo{Lat: lat, Lon: lon}
		wgsErr = validateBounds(geo)
		if wgsErr == nil {
			return geo, "wgs84", nil
		}
	}

	easting, errX := ParseDecimalComma(row.LinRefX)
	northing, errY := ParseDecimalComma(row.LinRefY)
	if errX != nil || errY != nil {
		if wgsErr != nil {
			return Geo{}, "", wgsErr
		}
		return Geo{}, "", fmt.Errorf("no usable coordinates (XGCSWGS84=%q YGCSWGS84=%q LINREFX=%q LINREFY=%q)",
			row.LonWGS84, row.LatWGS84, row.LinRefX, row.LinRefY)
	}

	utmLat, utmLon, err := UTM.ToLatLon(easting, northing, utmZoneNumber, utmZoneLetter)
	if err != nil {
		return Geo{}, "", fmt.Errorf("convert UTM coordinates: %w", err)
	}
	geo := Geo{Lat: utmLat, Lon: utmLon}
	if err := validateBounds(geo); err != nil {
		return Geo{}, "", err
	}
	return geo, "utm", nil
}

// ParseDecimalComma parses a numeric field that uses a decimal comma
// (e.g. "52,51237") as float64. Plain decimal points are accepted too, since
// the merged output and some provider extracts already use them.
func ParseDecimalComma(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty numeric field")
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	return v, nil
}

func parseIntField(name, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", name, s, err)
	}
	return v, nil
}

func validateBounds(geo Geo) error {
	if geo.Lat == 0 && geo.Lon == 0 {
		return fmt.Errorf("zero coordinates")
	}
	if geo.Lat < minLat || geo.Lat > maxLat || geo.Lon < minLon || geo.Lon > maxLon {
		return fmt.Errorf("coordinates (%.5f, %.5f) outside Germany bounds", geo.Lat, geo.Lon)
	}
	return nil
}

// deriveSeverity maps the UKATEGORIE accident category to a severity label:
// 1 = accident with fatalities, 2 = with seriously injured, 3 = with lightly
// injured. Unknown categories yield an empty label rather than an error so a
// provider schema extension does not reject otherwise valid rows.
func deriveSeverity(category int) string {
	switch category {
	case 1:
		return "fatal"
	case 2:
		return "serious"
	case 3:
		return "slight"
	default:
		return ""
	}
}

// generateID produces a deterministic ID from the record's natural key.
// The provider assigns OBJECTID per yearly file, so it cannot deduplicate
// records that appear in more than one year's extract; a hash of
// year|month|weekday|hour|coordinates identifies the same accident across
// files and makes merge runs replay-safe. The weekday is part of the key:
// two accidents at the same spot in the same month and hour-of-day are
// distinct events when they happened on different days of the week.
func generateID(year, month, weekday, hour int, geo Geo) string {
	input := fmt.Sprintf("%d|%d|%d|%d|%.6f|%.6f", year, month, weekday, hour, geo.Lat, geo.Lon)
	hash := sha256.Sum256([]byte(input))
	return "acc-" + hex.EncodeToString(hash[:8])
}
