package nominatim

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanCYJ/crash-data-etl/internal/config"
	"github.com/ryanCYJ/crash-data-etl/internal/domain"
	"github.com/ryanCYJ/crash-data-etl/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL string) *Client {
	cfg := &config.Config{
		NominatimURL:       baseURL,
		NominatimUserAgent: "PlaneCrashScraper/test",
	}
	return NewClient(cfg, observability.NewMetricsForTesting(), discardLogger())
}

func TestGeocode(t *testing.T) {
	var gotQuery, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotAgent = r.Header.Get("User-Agent")
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		io.WriteString(w, `[{"lat":"41.8781","lon":"-87.6298","display_name":"Chicago"}]`) //nolint:errcheck
	}))
	defer srv.Close()

	result, err := testClient(srv.URL).Geocode(context.Background(), "Near Chicago, Illinois")
	require.NoError(t, err)

	assert.Equal(t, "Chicago, Illinois", gotQuery, "directional prefix should be stripped from the query")
	assert.Equal(t, "PlaneCrashScraper/test", gotAgent)
	assert.Equal(t, domain.GeocodeFound, result.Status)
	assert.InDelta(t, 41.8781, result.Lat, 1e-9)
	assert.InDelta(t, -87.6298, result.Lon, 1e-9)
}

func TestGeocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `[]`) //nolint:errcheck
	}))
	defer srv.Close()

	result, err := testClient(srv.URL).Geocode(context.Background(), "Mount Nimba, Liberia")
	require.NoError(t, err)
	assert.Equal(t, domain.GeocodeNotFound, result.Status)
}

func TestGeocode_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Geocode(context.Background(), "Moscow, Russia")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestGeocode_MalformedCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `[{"lat":"not-a-number","lon":"0"}]`) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Geocode(context.Background(), "Moscow, Russia")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse lat")
}

func TestGeocode_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `[]`) //nolint:errcheck
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL).Geocode(ctx, "Moscow, Russia")
	require.Error(t, err)
}
