package models

// Coordinate represents a geographical point defined by its latitude and longitude.
type Coordinate struct {
	Latitude  float64 `json:"lat"` // Latitude of the geographical point.
	Longitude float64 `json:"lng"` // Longitude of the geographical point.
}

// DefaultCenter is the point the dashboard shows before the first search (San Francisco).
var DefaultCenter = Coordinate{Latitude: 37.7749, Longitude: -122.4194}

// PlaceResult is the outcome of a successful geocoding lookup.
type PlaceResult struct {
	Coordinate
	DisplayName string `json:"displayName"` // Human-readable name reported by the provider.
}
