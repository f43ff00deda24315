package geocoding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/quakewatch/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider resolves place queries through the Google Maps Geocoding API.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// NewGoogleProvider wraps an already configured Google Maps client.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Geocode returns the first Google candidate for the query, using its formatted address
// as the display name. An empty candidate list is reported as ErrNotFound.
func (gp *GoogleProvider) Geocode(ctx context.Context, query string) (*models.PlaceResult, error) {
	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "query", query)

	req := maps.GeocodingRequest{Address: query}
	geocodeResponse, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode query: %w", err)
	}

	if len(geocodeResponse) == 0 {
		return nil, fmt.Errorf("google: %w: %q", ErrNotFound, query)
	}
	top := geocodeResponse[0]

	return &models.PlaceResult{
		Coordinate: models.Coordinate{
			Latitude:  top.Geometry.Location.Lat,
			Longitude: top.Geometry.Location.Lng,
		},
		DisplayName: top.FormattedAddress,
	}, nil
}
