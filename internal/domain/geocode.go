package domain

import (
	"context"
	"log/slog"
)

// EnrichWithCoordinates attempts to resolve a record's Location into
// Latitude/Longitude cells. Records without a usable location are left
// untouched (no coordinate keys). Lookup failures and empty results degrade
// to null cells; nothing is surfaced to the caller (graceful degradation).
func EnrichWithCoordinates(ctx context.Context, rec Record, geocoder Geocoder, logger *slog.Logger) {
	if geocoder == nil {
		return
	}

	location, ok := rec[FieldLocation].Text()
	if !ok || location == "" {
		return
	}

	result, err := geocoder.Geocode(ctx, location)
	if err != nil {
		logger.Warn("geocoding failed", "location", location, "error", err)
		result = GeocodeResult{Status: GeocodeFailed}
	}

	if result.Status == GeocodeFound {
		rec[FieldLatitude] = FloatCell(result.Lat)
		rec[FieldLongitude] = FloatCell(result.Lon)
		return
	}
	rec[FieldLatitude] = NullCell()
	rec[FieldLongitude] = NullCell()
}
