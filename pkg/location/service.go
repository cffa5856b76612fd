// Package location reverse geocodes coordinates through a Nominatim server.
package location

import (
	"context"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
)

// DefaultBaseURL is the public OpenStreetMap Nominatim instance.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Place is the part of a reverse lookup the map cares about.
type Place struct {
	City        string
	Country     string
	DisplayName string
}

// NominatimResponse is shaped for the /reverse jsonv2 response.
type NominatimResponse struct {
	PlaceID     int64  `json:"place_id"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
	Address     struct {
		Road         string `json:"road"`
		Suburb       string `json:"suburb"`
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
		State        string `json:"state"`
		Postcode     string `json:"postcode"`
		Country      string `json:"country"`
		CountryCode  string `json:"country_code"`
	} `json:"address"`
}

// Client talks to a Nominatim server.
type Client struct {
	http *resty.Client
}

// NewClient returns a client for baseURL, falling back to DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	r := resty.New()
	r.SetBaseURL(baseURL)
	r.SetHeader("User-Agent", "ipcammap/1.0")
	r.SetHeader("Accept", "application/json")
	return &Client{http: r}
}

// Reverse looks up the place containing lat/lon.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*Place, error) {
	var body NominatimResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":             strconv.FormatFloat(lat, 'f', -1, 64),
			"lon":             strconv.FormatFloat(lon, 'f', -1, 64),
			"format":          "jsonv2",
			"zoom":            "10",
			"addressdetails":  "1",
			"accept-language": "en",
		}).
		SetResult(&body).
		Get("/reverse")
	if err != nil {
		return nil, eris.Wrap(err, "location: reverse")
	}
	if resp.IsError() {
		return nil, eris.Errorf("location: reverse: unexpected status %s", resp.Status())
	}
	if body.Error != "" {
		return nil, eris.Errorf("location: reverse %v,%v: %s", lat, lon, body.Error)
	}

	city := body.Address.City
	if city == "" {
		city = body.Address.Town
	}
	if city == "" {
		city = body.Address.Village
	}
	if city == "" {
		city = body.Address.Municipality
	}

	return &Place{
		City:        city,
		Country:     body.Address.Country,
		DisplayName: body.DisplayName,
	}, nil
}
