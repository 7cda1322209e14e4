package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the scraper.
type Metrics struct {
	PagesFetched   *prometheus.CounterVec // labels: outcome={scraped,exhausted,error}
	RecordsScraped prometheus.Counter
	ScrapeRunning  prometheus.Gauge
	DatasetRows    prometheus.Gauge

	PageFetchDuration prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,empty,error}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all scraper metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crash_scraper",
			Name:      "pages_fetched_total",
			Help:      "Archive page fetches by outcome.",
		}, []string{"outcome"}),
		RecordsScraped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crash_scraper",
			Name:      "records_scraped_total",
			Help:      "Total crash records extracted from detail pages.",
		}),
		ScrapeRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crash_scraper",
			Name:      "scrape_running",
			Help:      "1 while the scrape run is active, 0 when finished.",
		}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crash_scraper",
			Name:      "dataset_rows",
			Help:      "Rows in the most recently written dataset.",
		}),
		PageFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crash_scraper",
			Name:      "page_fetch_duration_seconds",
			Help:      "Archive page request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crash_scraper",
			Name:      "geocode_requests_total",
			Help:      "Nominatim lookups by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crash_scraper",
			Name:      "geocode_cache_total",
			Help:      "Geocode cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crash_scraper",
			Name:      "geocode_api_duration_seconds",
			Help:      "Nominatim request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crash_scraper",
			Name:      "geocode_enabled",
			Help:      "1 when geocoding enrichment is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.PagesFetched,
		m.RecordsScraped,
		m.ScrapeRunning,
		m.DatasetRows,
		m.PageFetchDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PagesFetched:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "crash_scraper", Name: "pages_fetched_total"}, []string{"outcome"}),
		RecordsScraped:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "crash_scraper", Name: "records_scraped_total"}),
		ScrapeRunning:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "crash_scraper", Name: "scrape_running"}),
		DatasetRows:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "crash_scraper", Name: "dataset_rows"}),
		PageFetchDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "crash_scraper", Name: "page_fetch_duration_seconds"}),
		GeocodeRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "crash_scraper", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "crash_scraper", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "crash_scraper", Name: "geocode_api_duration_seconds"}),
		GeocodeEnabled:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "crash_scraper", Name: "geocode_enabled"}),
	}
}
