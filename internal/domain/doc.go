// Package domain models German Unfallatlas traffic accident data.
//
// # Data Source
//
// Records originate from the Unfallatlas open-data portal of the German
// statistical offices (https://unfallatlas.statistikportal.de/), published as
// one semicolon-delimited CSV per year, named Unfallorte<YEAR>_LinRef.csv.
// The schema is owned by the provider and conformed to, not reinvented.
//
// # Provider Data Conventions
//
// Delimiter and decimals:
//
//	Fields are separated by ";". Numeric coordinate fields use a decimal
//	comma ("52,51237"), which is normalized to a decimal point during
//	parsing. See [ParseDecimalComma].
//
// Coordinates (two representations per row):
//
//	XGCSWGS84 / YGCSWGS84: longitude / latitude in WGS84. Authoritative.
//	LINREFX / LINREFY: easting / northing in ETRS89 / UTM zone 32N
//	(EPSG:25832), used as a conversion fallback when the WGS84 pair is
//	missing or malformed.
//	Coordinates outside the plausible bounds for Germany (lat 47–56,
//	lon 5–16) or equal to (0, 0) are rejected as data errors.
//
// Participant flags:
//
//	IstFuss, IstRad, IstPKW, IstKrad, IstGkfz, IstSonstige are 0/1 flags
//	marking participant kinds. This pipeline keeps only rows with
//	IstFuss = 1 (pedestrian involved).
//
// Accident category (UKATEGORIE):
//
//	1 = accident with fatalities      → severity "fatal"
//	2 = accident with serious injury  → severity "serious"
//	3 = accident with light injury    → severity "slight"
//
// Time fields:
//
//	UJAHR = year, UMONAT = month (1–12), USTUNDE = hour of day (0–23),
//	UWOCHENTAG = weekday (1 = Sunday … 7 = Saturday, provider convention).
//
// # ID Generation
//
// Record IDs are deterministic SHA-256 hashes of
// year|month|weekday|hour|lat|lon.
// OBJECTID is only unique within one yearly file, so the hash is what makes
// merging overlapping year extracts idempotent: the same accident hashes to
// the same ID regardless of which file it came from. See [generateID].
package domain
