package domain

import "context"

// GeocodeStatus classifies the outcome of a location lookup. Anything other
// than GeocodeFound collapses to null coordinate cells at the serialization
// boundary; keeping the categories distinct makes failures inspectable.
type GeocodeStatus string

const (
	GeocodeFound    GeocodeStatus = "found"
	GeocodeNotFound GeocodeStatus = "not_found"
	GeocodeFailed   GeocodeStatus = "failed"
)

// GeocodeResult is the coordinate pair resolved for a location string.
type GeocodeResult struct {
	Lat    float64
	Lon    float64
	Status GeocodeStatus
}

// Geocoder resolves a free-text location to coordinates.
type Geocoder interface {
	// Geocode looks up the given raw location string. Implementations clean
	// directional prefixes from the query themselves.
	Geocode(ctx context.Context, location string) (GeocodeResult, error)
}
