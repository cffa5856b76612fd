package geo

import (
	"math"

	"ipcammap/internal/models"
)

// ValidCoordinates reports whether lat/lon are finite and inside WGS84 bounds.
func ValidCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Centroid returns the arithmetic mean of the points. The second return is
// false when points is empty.
func Centroid(points []models.Coordinates) (models.Coordinates, bool) {
	if len(points) == 0 {
		return models.Coordinates{}, false
	}
	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}
	n := float64(len(points))
	return models.Coordinates{Lat: sumLat / n, Lon: sumLon / n}, true
}
