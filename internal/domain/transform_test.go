package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validRow is a representative pedestrian accident in Berlin, using the
// provider's decimal-comma encoding.
func validRow() RawRow {
	return RawRow{
		ObjectID:     "123",
		Year:         "2019",
		Month:        "6",
		Hour:         "17",
		Weekday:      "3",
		Category:     "2",
		IsPedestrian: "1",
		LinRefX:      "798809,4127",
		LinRefY:      "5827999,6933",
		LonWGS84:     "13,40495",
		LatWGS84:     "52,52000",
	}
}

func TestParseRow(t *testing.T) {
	t.Run("valid row with decimal commas", func(t *testing.T) {
		result, err := ParseRow(validRow())

		require.NoError(t, err)
		assert.Equal(t, 2019, result.Year)
		assert.Equal(t, 6, result.Month)
		assert.Equal(t, 17, result.Hour)
		assert.Equal(t, 3, result.Weekday)
		assert.Equal(t, 2, result.Category)
		assert.Equal(t, "serious", result.Severity)
		assert.InDelta(t, 52.52, result.Geo.Lat, 1e-9)
		assert.InDelta(t, 13.40495, result.Geo.Lon, 1e-9)
		assert.Equal(t, "wgs84", result.GeoSource)
		assert.NotEmpty(t, result.ID)
	})

	t.Run("decimal points accepted too", func(t *testing.T) {
		row := validRow()
		row.LonWGS84 = "13.40495"
		row.LatWGS84 = "52.52000"

		result, err := ParseRow(row)

		require.NoError(t, err)
		assert.InDelta(t, 52.52, result.Geo.Lat, 1e-9)
	})

	t.Run("UTM fallback when WGS84 columns are empty", func(t *testing.T) {
		row := validRow()
		row.LonWGS84 = ""
		row.LatWGS84 = ""

		result, err := ParseRow(row)

		require.NoError(t, err)
		assert.Equal(t, "utm", result.GeoSource)
		// LINREFX/LINREFY above are the UTM 32N projection of the same
		// Berlin point; the inverse conversion must land within ~20m.
		assert.InDelta(t, 52.52, result.Geo.Lat, 0.0002)
		assert.InDelta(t, 13.40495, result.Geo.Lon, 0.0003)
	})

	t.Run("no usable coordinates", func(t *testing.T) {
		row := validRow()
		row.LonWGS84 = ""
		row.LatWGS84 = "not-a-number"
		row.LinRefX = ""
		row.LinRefY = ""

		_, err := ParseRow(row)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no usable coordinates")
	})

	t.Run("zero coordinates rejected", func(t *testing.T) {
		row := validRow()
		row.LonWGS84 = "0"
		row.LatWGS84 = "0"
		row.LinRefX = ""
		row.LinRefY = ""

		_, err := ParseRow(row)
		require.Error(t, err)
	})

	t.Run("coordinates outside Germany rejected", func(t *testing.T) {
		row := validRow()
		row.LatWGS84 = "40,0" // Madrid latitude
		row.LinRefX = ""
		row.LinRefY = ""
		_, err := ParseRow(row)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "outside Germany bounds")
	})

	t.Run("UTM fallback recovers an implausible WGS84 pair", func(t *testing.T) {
		row := validRow()
		row.LonWGS84 = "0"
		row.LatWGS84 = "0"

		result, err := ParseRow(row)

		require.NoError(t, err)
		assert.Equal(t, "utm", result.GeoSource)
		assert.InDelta(t, 52.52, result.Geo.Lat, 0.0002)
		assert.InDelta(t, 13.40495, result.Geo.Lon, 0.0003)
	})

	t.Run("missing year", func(t *testing.T) {
		row := validRow()
		row.Year = ""
		_, err := ParseRow(row)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "UJAHR")
	})

	t.Run("unparsable category", func(t *testing.T) {
		row := validRow()
		row.Category = "x"
		_, err := ParseRow(row)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "UKATEGORIE")
	})

	t.Run("deterministic ID", func(t *testing.T) {
		first, err := ParseRow(validRow())
		require.NoError(t, err)
		second, err := ParseRow(validRow())
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("ID independent of source file", func(t *testing.T) {
		a := validRow()
		a.SourceFile = "Unfallorte2019_LinRef.csv"
		b := validRow()
		b.SourceFile = "Unfallorte2020_LinRef.csv"
		b.ObjectID = "9999"

		first, err := ParseRow(a)
		require.NoError(t, err)
		second, err := ParseRow(b)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("ID distinguishes weekdays at the same place and hour", func(t *testing.T) {
		a := validRow()
		b := validRow()
		b.Weekday = "5"

		first, err := ParseRow(a)
		require.NoError(t, err)
		second, err := ParseRow(b)
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("processed_at uses injected clock", func(t *testing.T) {
		frozen := time.Date(2024, 4, 27, 6, 0, 0, 0, time.UTC)
		SetClock(clockwork.NewFakeClockAt(frozen))
		defer SetClock(nil)

		result, err := ParseRow(validRow())

		require.NoError(t, err)
		assert.Equal(t, frozen, result.ProcessedAt)
	})
}

func TestParseDecimalComma(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"decimal comma", "52,51237", 52.51237, false},
		{"decimal point", "13.405", 13.405, false},
		{"integer", "2019", 2019, false},
		{"surrounding spaces", " 9,5 ", 9.5, false},
		{"empty", "", 0, true},
		{"garbage", "abc", 0, true},
		{"two commas", "1,2,3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalComma(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestDeriveSeverity(t *testing.T) {
	tests := []struct {
		category int
		want     string
	}{
		{1, "fatal"},
		{2, "serious"},
		{3, "slight"},
		{0, ""},
		{4, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, deriveSeverity(tt.category), "category %d", tt.category)
	}
}

func TestPedestrianInvolved(t *testing.T) {
	assert.True(t, RawRow{IsPedestrian: "1"}.PedestrianInvolved())
	assert.False(t, RawRow{IsPedestrian: "0"}.PedestrianInvolved())
	assert.False(t, RawRow{IsPedestrian: ""}.PedestrianInvolved())
}
