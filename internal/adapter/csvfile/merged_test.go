package csvfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accident-hotspots/internal/domain"
)

func sampleAccident() domain.Accident {
	return domain.Accident{
		ID:       "acc-0011223344556677",
		Year:     2019,
		Month:    6,
		Hour:     17,
		Weekday:  3,
		Category: 2,
		Severity: "serious",
		Geo:      domain.Geo{Lat: 52.52, Lon: 13.40495},
	}
}

func TestWriteMerged(t *testing.T) {
	t.Run("writes header and records", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out", "PedestrianAccidents.csv")
		w := NewMergedWriter(path)

		require.NoError(t, w.WriteMerged([]domain.Accident{sampleAccident()}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, strings.Join(MergedHeader, ","), lines[0])
		assert.Equal(t, "acc-0011223344556677,2019,6,17,3,2,serious,52.520000,13.404950", lines[1])
	})

	t.Run("empty dataset produces header-only file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.csv")
		w := NewMergedWriter(path)

		require.NoError(t, w.WriteMerged(nil))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, strings.Join(MergedHeader, ",")+"\n", string(data))
	})

	t.Run("unwritable output directory is an error", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

		// Parent "directory" is a regular file.
		w := NewMergedWriter(filepath.Join(blocker, "out.csv"))
		require.Error(t, w.WriteMerged(nil))
	})
}

func TestReadMerged(t *testing.T) {
	t.Run("round trip through the merged file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "merged.csv")
		want := sampleAccident()
		require.NoError(t, NewMergedWriter(path).WriteMerged([]domain.Accident{want}))

		got, skipped, err := ReadMerged(path)

		require.NoError(t, err)
		assert.Zero(t, skipped)
		require.Len(t, got, 1)
		assert.Equal(t, want.ID, got[0].ID)
		assert.Equal(t, want.Year, got[0].Year)
		assert.Equal(t, want.Severity, got[0].Severity)
		assert.InDelta(t, want.Geo.Lat, got[0].Geo.Lat, 1e-6)
		assert.InDelta(t, want.Geo.Lon, got[0].Geo.Lon, 1e-6)
	})

	t.Run("rows with bad coordinates are skipped and counted", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "merged.csv")
		content := "id,year,month,hour,weekday,category,severity,latitude,longitude\n" +
			"acc-1,2019,6,17,3,2,serious,52.52,13.40\n" +
			"acc-2,2019,6,18,3,2,serious,,\n" +
			"acc-3,2019,6,19,3,2,serious,abc,def\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		got, skipped, err := ReadMerged(path)

		require.NoError(t, err)
		assert.Equal(t, 2, skipped)
		require.Len(t, got, 1)
		assert.Equal(t, "acc-1", got[0].ID)
	})

	t.Run("missing coordinate columns is a schema error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "merged.csv")
		require.NoError(t, os.WriteFile(path, []byte("id,year\nacc-1,2019\n"), 0o644))

		_, _, err := ReadMerged(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema error")
	})

	t.Run("single-quoted spreadsheet header is tolerated", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "merged.csv")
		content := "\"'id,year,month,hour,weekday,category,severity,latitude,longitude'\"\n" +
			"acc-1,2019,6,17,3,2,serious,\"52,52\",\"13,40\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		got, skipped, err := ReadMerged(path)

		require.NoError(t, err)
		assert.Zero(t, skipped)
		require.Len(t, got, 1)
		assert.InDelta(t, 52.52, got[0].Geo.Lat, 1e-9)
		assert.InDelta(t, 13.40, got[0].Geo.Lon, 1e-9)
	})

	t.Run("raw single-quoted header line is tolerated", func(t *testing.T) {
		// Written as-is by some exports: no CSV quoting, so the reader
		// splits it into cells with the quote stuck to the outer names.
		path := filepath.Join(t.TempDir(), "merged.csv")
		content := "'id,year,month,hour,weekday,category,severity,latitude,longitude'\n" +
			"acc-1,2019,6,17,3,2,serious,52.52,13.40\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		got, skipped, err := ReadMerged(path)

		require.NoError(t, err)
		assert.Zero(t, skipped)
		require.Len(t, got, 1)
		assert.Equal(t, "acc-1", got[0].ID)
		assert.InDelta(t, 52.52, got[0].Geo.Lat, 1e-9)
		assert.InDelta(t, 13.40, got[0].Geo.Lon, 1e-9)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, _, err := ReadMerged(filepath.Join(t.TempDir(), "missing.csv"))
		require.Error(t, err)
	})
}
