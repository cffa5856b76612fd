package render

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipcammap/internal/models"
)

func rec(ip string, lat, lon float64, city string) models.CameraRecord {
	return models.CameraRecord{
		Address:      ip,
		Port:         80,
		Latitude:     lat,
		Longitude:    lon,
		Country:      "Norway",
		City:         city,
		Organization: "Telenor",
		Product:      "Axis",
		SourceQuery:  "webcam",
	}
}

func TestRender_Empty(t *testing.T) {
	m, table, err := Render(nil, DefaultOptions())
	assert.True(t, errors.Is(err, ErrNoData))
	assert.Nil(t, m)
	assert.Nil(t, table)
}

func TestRender_SameAddressKeepsFirstCity(t *testing.T) {
	records := []models.CameraRecord{
		rec("1.1.1.1", 59.9, 10.7, "Oslo"),
		rec("1.1.1.1", 60.4, 5.3, "Bergen"),
	}

	m, table, err := Render(records, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, "Oslo", table[0].City)
	assert.Len(t, m.Markers, 1)
	assert.Len(t, m.Heat, 1)
}

func TestDedupe_FirstSeenPerAddress(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		var records []models.CameraRecord
		first := map[string]models.CameraRecord{}
		var order []string
		for j := 0; j < 50; j++ {
			ip := fmt.Sprintf("10.0.0.%d", r.Intn(12))
			x := rec(ip, r.Float64()*180-90, r.Float64()*360-180, fmt.Sprintf("city-%d", j))
			records = append(records, x)
			if _, ok := first[ip]; !ok {
				first[ip] = x
				order = append(order, ip)
			}
		}

		table := Dedupe(records)
		require.Len(t, table, len(first))
		for k, row := range table {
			assert.Equal(t, order[k], row.Address)
			assert.Equal(t, first[row.Address], row)
		}
	}
}

func TestRender_CenterIsMeanOfDedupedRows(t *testing.T) {
	records := []models.CameraRecord{
		rec("a", 10, 100, "A"),
		rec("b", 20, -60, "B"),
		rec("a", 80, 170, "ignored duplicate"),
		rec("c", -45, 20, "C"),
	}

	m, _, err := Render(records, DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, (10.0+20-45)/3, m.Center.Lat, 1e-9)
	assert.InDelta(t, (100.0-60+20)/3, m.Center.Lon, 1e-9)
	assert.GreaterOrEqual(t, m.Center.Lat, -90.0)
	assert.LessOrEqual(t, m.Center.Lat, 90.0)
	assert.GreaterOrEqual(t, m.Center.Lon, -180.0)
	assert.LessOrEqual(t, m.Center.Lon, 180.0)
}

func TestRender_MarkerContent(t *testing.T) {
	r := rec("203.0.113.9", 1, 2, "Tromsø")
	r.Port = 8081
	r.Product = "<script>alert(1)</script>"

	m, _, err := Render([]models.CameraRecord{r}, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, m.Markers, 1)

	mk := m.Markers[0]
	assert.Equal(t, 1.0, mk.Lat)
	assert.Equal(t, 2.0, mk.Lon)
	assert.Equal(t, "203.0.113.9 - Tromsø, Norway", mk.Tooltip)
	assert.Contains(t, mk.Popup, "203.0.113.9:8081")
	assert.Contains(t, mk.Popup, "Tromsø, Norway")
	assert.Contains(t, mk.Popup, "Telenor")
	assert.Contains(t, mk.Popup, "<b>Query:</b> webcam")
	assert.NotContains(t, mk.Popup, "<script>")
	assert.Equal(t, [][2]float64{{1, 2}}, m.Heat)
}

func TestMap_WriteTo(t *testing.T) {
	m, _, err := Render([]models.CameraRecord{
		rec("1.1.1.1", 59.9, 10.7, "Oslo"),
		rec("2.2.2.2", 60.4, 5.3, "</script><b>x"),
	}, DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	html := buf.String()
	assert.Contains(t, html, "leaflet-heat.js")
	assert.Contains(t, html, "L.heatLayer(")
	assert.Contains(t, html, "L.control.layers(")
	assert.Contains(t, html, `"Heat map"`)
	assert.Contains(t, html, "1.1.1.1")
	assert.Contains(t, html, "openstreetmap.org")
	assert.Equal(t, 1, strings.Count(html, "</script>\n</body>"), "record data cannot close the script block")
	assert.NotContains(t, html, "</script><b>x")
}

func TestMap_Save(t *testing.T) {
	m, _, err := Render([]models.CameraRecord{rec("1.1.1.1", 1, 1, "X")}, DefaultOptions())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "map.html")
	require.NoError(t, m.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<!DOCTYPE html>"))
}

func TestMap_SaveFailureLeavesNoFile(t *testing.T) {
	m := &Map{Options: DefaultOptions(), Heat: [][2]float64{{math.NaN(), 0}}}
	dir := t.TempDir()
	path := filepath.Join(dir, "map.html")

	require.Error(t, m.Save(path))
	assert.NoFileExists(t, path)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary file is removed")
}

func TestRender_AcceptsDedupedInput(t *testing.T) {
	in := []models.CameraRecord{rec("1.1.1.1", 1, 1, "A"), rec("1.1.1.1", 2, 2, "B"), rec("2.2.2.2", 3, 3, "C")}
	table := Dedupe(in)

	_, got, err := Render(table, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, table, got)
}
