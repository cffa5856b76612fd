package export

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"ipcammap/internal/models"
)

// FeatureCollection builds one point feature per record. GeoJSON coordinates
// are ordered longitude, latitude.
func FeatureCollection(records []models.CameraRecord) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(records))}
	for _, r := range records {
		pt := geom.NewPointFlat(geom.XY, []float64{r.Longitude, r.Latitude})
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       r.Address,
			Geometry: pt,
			Properties: map[string]interface{}{
				"ip":      r.Address,
				"port":    r.Port,
				"country": r.Country,
				"city":    r.City,
				"org":     r.Organization,
				"product": r.Product,
				"query":   r.SourceQuery,
			},
		})
	}
	return fc
}

// WriteGeoJSON encodes records as a GeoJSON FeatureCollection.
func WriteGeoJSON(w io.Writer, records []models.CameraRecord) error {
	data, err := json.Marshal(FeatureCollection(records))
	if err != nil {
		return eris.Wrap(err, "export: marshal geojson")
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "export: write geojson")
	}
	return nil
}

// SaveGeoJSON writes records as GeoJSON to path.
func SaveGeoJSON(path string, records []models.CameraRecord) error {
	return SaveFile(path, func(w io.Writer) error { return WriteGeoJSON(w, records) })
}
