package domain

import "time"

// RawRow holds one source CSV row as raw strings, keyed off the Unfallatlas
// column names. Numeric columns stay strings here because the provider uses a
// decimal comma and occasionally ships empty or malformed cells; parsing and
// validation happen in ParseRow.
type RawRow struct {
	ObjectID     string // OBJECTID
	Year         string // UJAHR
	Month        string // UMONAT
	Hour         string // USTUNDE
	Weekday      string // UWOCHENTAG
	Category     string // UKATEGORIE
	Kind         string // UART
	IsPedestrian string // IstFuss ("1" = pedestrian involved)
	LinRefX      string // LINREFX (ETRS89/UTM zone 32N easting)
	LinRefY      string // LINREFY (ETRS89/UTM zone 32N northing)
	LonWGS84     string // XGCSWGS84
	LatWGS84     string // YGCSWGS84

	// Provenance for row-level reject logging.
	SourceFile string
	Line       int
}

// SourceFile identifies one yearly extract in the input directory. Every
// RawRow traces back to exactly one SourceFile.
type SourceFile struct {
	Path string
	Year int
}

// PedestrianInvolved reports whether the row carries the pedestrian flag.
func (r RawRow) PedestrianInvolved() bool {
	return r.IsPedestrian == "1"
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Accident is the normalized record after parsing and coordinate conversion.
type Accident struct {
	ID       string `json:"id"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Hour     int    `json:"hour"`
	Weekday  int    `json:"weekday"`
	Category int    `json:"category"`
	Severity string `json:"severity,omitempty"`
	Geo      Geo    `json:"geo"`

	// GeoSource records which source columns produced the coordinates:
	// "wgs84" for the XGCSWGS84/YGCSWGS84 pair, "utm" for the
	// LINREFX/LINREFY fallback.
	GeoSource string `json:"geo_source,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`
}
