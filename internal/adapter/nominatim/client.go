// Package nominatim implements domain.Geocoder against the OpenStreetMap
// Nominatim search API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/ryanCYJ/crash-data-etl/internal/config"
	"github.com/ryanCYJ/crash-data-etl/internal/domain"
	"github.com/ryanCYJ/crash-data-etl/internal/observability"
)

// Client performs forward geocoding lookups. Nominatim's usage policy
// requires an identifying User-Agent and at most one request per second;
// the rate limiter enforces the configured floor between real lookups.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim geocoding client.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.GeocodeDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.GeocodeDelay), 1)
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.NominatimTimeout},
		baseURL:    cfg.NominatimURL,
		userAgent:  cfg.NominatimUserAgent,
		limiter:    limiter,
		metrics:    metrics,
		logger:     logger,
	}
}

// Geocode resolves a raw location string to coordinates. The query is
// cleaned of directional prefixes; only the first result is used, its
// string lat/lon fields parsed to floats. An empty result set maps to
// GeocodeNotFound; transport failures and malformed responses are errors.
func (c *Client) Geocode(ctx context.Context, location string) (domain.GeocodeResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.GeocodeResult{}, err
	}

	params := url.Values{
		"q":      {domain.CleanLocation(location)},
		"format": {"json"},
		"limit":  {"1"},
	}
	fullURL := c.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodeResult{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodeResult{}, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodeResult{}, fmt.Errorf("decode response: %w", err)
	}

	if len(places) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		return domain.GeocodeResult{Status: domain.GeocodeNotFound}, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodeResult{}, fmt.Errorf("parse lat %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodeResult{}, fmt.Errorf("parse lon %q: %w", places[0].Lon, err)
	}

	c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	return domain.GeocodeResult{Lat: lat, Lon: lon, Status: domain.GeocodeFound}, nil
}

// place is one entry of the Nominatim search response. Coordinates arrive as
// strings.
type place struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}
