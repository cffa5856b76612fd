// Package render turns collected camera records into an interactive Leaflet
// map with a marker layer and a heat layer.
package render

import (
	"bytes"
	"errors"
	"html/template"

	"github.com/rotisserie/eris"

	"ipcammap/internal/models"
	"ipcammap/pkg/geo"
)

// ErrNoData is returned by Render when there is nothing to draw.
var ErrNoData = errors.New("no camera data to display")

const (
	// DefaultZoom is a whole-world view.
	DefaultZoom = 2
	// DefaultTileURL is the OpenStreetMap raster tile template.
	DefaultTileURL = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	// DefaultTileAttribution credits the tile provider.
	DefaultTileAttribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`
	// DefaultPopupMaxWidth is the popup width in pixels.
	DefaultPopupMaxWidth = 300
)

// Options tune the map document.
type Options struct {
	Title           string
	Zoom            int
	TileURL         string
	TileAttribution string
	PopupMaxWidth   int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Title:           "IP Camera Map",
		Zoom:            DefaultZoom,
		TileURL:         DefaultTileURL,
		TileAttribution: DefaultTileAttribution,
		PopupMaxWidth:   DefaultPopupMaxWidth,
	}
}

// Marker is one camera pin.
type Marker struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Popup   string  `json:"popup"`
	Tooltip string  `json:"tooltip"`
}

// Map is a fully materialised map document.
type Map struct {
	Options Options
	Center  models.Coordinates
	Markers []Marker
	Heat    [][2]float64
}

var popupTmpl = template.Must(template.New("popup").Parse(
	`<b>IP:</b> {{.Endpoint}}<br>` +
		`<b>Location:</b> {{.City}}, {{.Country}}<br>` +
		`<b>Org:</b> {{.Organization}}<br>` +
		`<b>Product:</b> {{.Product}}<br>` +
		`<b>Query:</b> {{.SourceQuery}}`))

// Render deduplicates records by address and builds the map centred on their
// mean position. The deduplicated table is returned alongside the map.
// Records already passed through Dedupe are accepted as-is: deduplication is
// idempotent, so callers may dedupe and enrich before rendering.
func Render(records []models.CameraRecord, opts Options) (*Map, []models.CameraRecord, error) {
	if len(records) == 0 {
		return nil, nil, ErrNoData
	}

	table := Dedupe(records)

	points := make([]models.Coordinates, len(table))
	for i, r := range table {
		points[i] = r.Coordinates()
	}
	center, _ := geo.Centroid(points)

	m := &Map{
		Options: opts,
		Center:  center,
		Markers: make([]Marker, 0, len(table)),
		Heat:    make([][2]float64, 0, len(table)),
	}
	for _, r := range table {
		popup, err := Popup(r)
		if err != nil {
			return nil, nil, err
		}
		m.Markers = append(m.Markers, Marker{
			Lat:     r.Latitude,
			Lon:     r.Longitude,
			Popup:   popup,
			Tooltip: Tooltip(r),
		})
		m.Heat = append(m.Heat, [2]float64{r.Latitude, r.Longitude})
	}

	return m, table, nil
}

// Popup renders the HTML info panel for a record. Field values are escaped.
func Popup(r models.CameraRecord) (string, error) {
	var buf bytes.Buffer
	if err := popupTmpl.Execute(&buf, r); err != nil {
		return "", eris.Wrap(err, "render: popup")
	}
	return buf.String(), nil
}

// Tooltip returns the hover label "address - city, country".
func Tooltip(r models.CameraRecord) string {
	return r.Address + " - " + r.City + ", " + r.Country
}
