package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubGeocoder struct {
	result GeocodeResult
	err    error
	calls  int
}

func (g *stubGeocoder) Geocode(_ context.Context, _ string) (GeocodeResult, error) {
	g.calls++
	return g.result, g.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnrichWithCoordinates(t *testing.T) {
	ctx := context.Background()

	t.Run("found sets coordinates", func(t *testing.T) {
		geo := &stubGeocoder{result: GeocodeResult{Lat: 41.85, Lon: -87.65, Status: GeocodeFound}}
		rec := Record{FieldLocation: TextCell("Near Chicago, Illinois")}

		EnrichWithCoordinates(ctx, rec, geo, discardLogger())

		assert.Equal(t, FloatCell(41.85), rec[FieldLatitude])
		assert.Equal(t, FloatCell(-87.65), rec[FieldLongitude])
	})

	t.Run("not found sets null coordinates", func(t *testing.T) {
		geo := &stubGeocoder{result: GeocodeResult{Status: GeocodeNotFound}}
		rec := Record{FieldLocation: TextCell("Mount Nimba, Liberia")}

		EnrichWithCoordinates(ctx, rec, geo, discardLogger())

		assert.Equal(t, NullCell(), rec[FieldLatitude])
		assert.Equal(t, NullCell(), rec[FieldLongitude])
	})

	t.Run("lookup error degrades to null", func(t *testing.T) {
		geo := &stubGeocoder{err: errors.New("connection refused")}
		rec := Record{FieldLocation: TextCell("Moscow, Russia")}

		EnrichWithCoordinates(ctx, rec, geo, discardLogger())

		assert.Equal(t, NullCell(), rec[FieldLatitude])
		assert.Equal(t, NullCell(), rec[FieldLongitude])
	})

	t.Run("missing location leaves record untouched", func(t *testing.T) {
		geo := &stubGeocoder{result: GeocodeResult{Lat: 1, Lon: 2, Status: GeocodeFound}}
		rec := Record{FieldDate: TextCell("July 28, 2001")}

		EnrichWithCoordinates(ctx, rec, geo, discardLogger())

		assert.NotContains(t, rec, FieldLatitude)
		assert.NotContains(t, rec, FieldLongitude)
		assert.Zero(t, geo.calls)
	})

	t.Run("null location skipped", func(t *testing.T) {
		geo := &stubGeocoder{}
		rec := Record{FieldLocation: NullCell()}

		EnrichWithCoordinates(ctx, rec, geo, discardLogger())

		assert.NotContains(t, rec, FieldLatitude)
		assert.Zero(t, geo.calls)
	})

	t.Run("empty location skipped", func(t *testing.T) {
		geo := &stubGeocoder{}
		rec := Record{FieldLocation: TextCell("")}

		EnrichWithCoordinates(ctx, rec, geo, discardLogger())

		assert.NotContains(t, rec, FieldLatitude)
		assert.Zero(t, geo.calls)
	})

	t.Run("nil geocoder is a no-op", func(t *testing.T) {
		rec := Record{FieldLocation: TextCell("Moscow, Russia")}

		EnrichWithCoordinates(ctx, rec, nil, discardLogger())

		assert.NotContains(t, rec, FieldLatitude)
	})
}
