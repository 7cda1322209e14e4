// Package source fetches accident detail pages from a planecrashinfo-style
// archive and extracts their label/value table rows.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/ryanCYJ/crash-data-etl/internal/config"
	"github.com/ryanCYJ/crash-data-etl/internal/domain"
	"github.com/ryanCYJ/crash-data-etl/internal/observability"
)

// Client fetches archive pages over HTTP. A rate limiter enforces the
// configured delay between requests regardless of outcome, bounding load on
// the source server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an archive page client from configuration.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		limiter:    newLimiter(cfg.RequestDelay),
		metrics:    metrics,
		logger:     logger,
	}
}

func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// PageURL builds the deterministic detail page URL for a (year, page) pair.
func (c *Client) PageURL(year, page int) string {
	return fmt.Sprintf("%s/%d/%d-%d.htm", c.baseURL, year, year, page)
}

// FetchRows retrieves one detail page and returns its table rows. A missing
// page (non-200 status) or a page without the expected data table yields an
// error wrapping domain.ErrArchiveExhausted; transport failures come back as
// plain errors so callers can tell premature truncation from a real end.
func (c *Client) FetchRows(ctx context.Context, year, page int) ([]domain.TableRow, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	pageURL := c.PageURL(year, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	c.metrics.PageFetchDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s not found: %w", pageURL, domain.ErrArchiveExhausted)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	rows, err := extractRows(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", pageURL, err)
	}

	c.logger.Debug("fetched archive page", "url", pageURL, "rows", len(rows))
	return rows, nil
}
