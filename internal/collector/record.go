package collector

import (
	"ipcammap/internal/models"
	"ipcammap/pkg/geo"
	"ipcammap/pkg/shodan"
)

// FromMatch converts a search match into a CameraRecord. It returns false when
// the match lacks either coordinate or the coordinates are out of range.
func FromMatch(m shodan.Match, query string) (models.CameraRecord, bool) {
	if !m.HasCoordinates() {
		return models.CameraRecord{}, false
	}
	lat, lon := *m.Location.Latitude, *m.Location.Longitude
	if !geo.ValidCoordinates(lat, lon) {
		return models.CameraRecord{}, false
	}

	return models.CameraRecord{
		Address:      m.IPStr,
		Port:         m.Port,
		Latitude:     lat,
		Longitude:    lon,
		Country:      orUnknown(m.Location.CountryName),
		City:         orUnknown(m.Location.City),
		Organization: orUnknown(m.Org),
		Product:      orUnknown(m.Product),
		SourceQuery:  query,
	}, true
}

func orUnknown(s *string) string {
	if s == nil {
		return models.Unknown
	}
	return models.OrUnknown(*s)
}
