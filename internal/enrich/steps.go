package enrich

import (
	"context"

	"ipcammap/internal/models"
	"ipcammap/pkg/geo"
	"ipcammap/pkg/location"
)

// ReverseGeocoder resolves coordinates to a place.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (*location.Place, error)
}

// NormalizeCountry rewrites the country to its canonical spelling.
func NormalizeCountry(_ context.Context, r *models.CameraRecord) error {
	if r.Country == models.Unknown {
		return nil
	}
	r.Country = models.OrUnknown(geo.CanonicalCountry(r.Country))
	return nil
}

// FillUnknownPlace returns a step that asks g for the city and country of
// records that arrived without them. Known values are never overwritten.
func FillUnknownPlace(g ReverseGeocoder) Step[models.CameraRecord] {
	return func(ctx context.Context, r *models.CameraRecord) error {
		if r.City != models.Unknown && r.Country != models.Unknown {
			return nil
		}
		place, err := g.Reverse(ctx, r.Latitude, r.Longitude)
		if err != nil {
			return err
		}
		if r.City == models.Unknown {
			r.City = models.OrUnknown(place.City)
		}
		if r.Country == models.Unknown {
			r.Country = models.OrUnknown(geo.CanonicalCountry(place.Country))
		}
		return nil
	}
}
