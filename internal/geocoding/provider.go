package geocoding

import (
	"context"
	"errors"
	"net/http"

	"github.com/UnknownOlympus/quakewatch/internal/models"
)

// Provider is an interface that defines a method for geocoding a free-text place query.
// The Geocode method returns the best candidate reported by the upstream service,
// or an error wrapping ErrNotFound when the service has no candidate for the query.
type Provider interface {
	Geocode(ctx context.Context, query string) (*models.PlaceResult, error)
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Common errors shared by all providers.
var (
	// ErrNotFound is returned when the upstream service yields no candidate for the query.
	ErrNotFound = errors.New("location not found")
	// ErrInvalidCoords is returned when the upstream candidate carries unusable coordinates.
	ErrInvalidCoords = errors.New("geocoding API returned invalid coordinates")
	// ErrUnauthorized is returned when the upstream service rejects the API key.
	ErrUnauthorized = errors.New("geocoding API unauthorized (invalid API key)")
)
