package models

import (
	"strconv"
)

// Unknown is stored for descriptive fields the search service did not report.
const Unknown = "Unknown"

// CameraRecord is one geolocated match produced by one search query.
// Records are only built when the match carried both coordinates.
type CameraRecord struct {
	Address      string  `json:"ip"`
	Port         int     `json:"port"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Country      string  `json:"country"`
	City         string  `json:"city"`
	Organization string  `json:"org"`
	Product      string  `json:"product"`
	SourceQuery  string  `json:"query"`
}

// CSVHeader lists the tabular export columns in order.
var CSVHeader = []string{"ip", "port", "latitude", "longitude", "country", "city", "org", "product", "query"}

// Row renders the record in CSVHeader order.
func (r CameraRecord) Row() []string {
	return []string{
		r.Address,
		strconv.Itoa(r.Port),
		strconv.FormatFloat(r.Latitude, 'f', -1, 64),
		strconv.FormatFloat(r.Longitude, 'f', -1, 64),
		r.Country,
		r.City,
		r.Organization,
		r.Product,
		r.SourceQuery,
	}
}

// Coordinates returns the record position.
func (r CameraRecord) Coordinates() Coordinates {
	return Coordinates{Lat: r.Latitude, Lon: r.Longitude}
}

// Endpoint returns "address:port".
func (r CameraRecord) Endpoint() string {
	return r.Address + ":" + strconv.Itoa(r.Port)
}

// OrUnknown returns s, or Unknown when s is empty.
func OrUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
