package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all scraper settings, populated from environment variables.
type Config struct {
	StartYear    int
	EndYear      int
	BaseURL      string
	UserAgent    string
	RequestDelay time.Duration
	HTTPTimeout  time.Duration

	OutputDir string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Nominatim geocoding configuration.
	GeocodeEnabled     bool
	NominatimURL       string
	NominatimUserAgent string
	NominatimTimeout   time.Duration
	GeocodeDelay       time.Duration
	GeocodeCacheSize   int

	// Optional Kafka sink. Enabled when KAFKA_SINK_TOPIC is set.
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	startYear, err := envInt("START_YEAR", 2000)
	if err != nil {
		return nil, err
	}
	endYear, err := envInt("END_YEAR", 2025)
	if err != nil {
		return nil, err
	}
	requestDelay, err := envDuration("REQUEST_DELAY", time.Second)
	if err != nil {
		return nil, err
	}
	httpTimeout, err := envDuration("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	nominatimTimeout, err := envDuration("NOMINATIM_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	geocodeDelay, err := envDuration("GEOCODE_DELAY", time.Second)
	if err != nil {
		return nil, err
	}
	cacheSize, err := envInt("GEOCODE_CACHE_SIZE", 10000)
	if err != nil {
		return nil, err
	}

	geocodeEnabled := true
	if v := os.Getenv("GEOCODE_ENABLED"); v != "" {
		geocodeEnabled = v == "true"
	}

	cfg := &Config{
		StartYear:    startYear,
		EndYear:      endYear,
		BaseURL:      envOrDefault("BASE_URL", "https://www.planecrashinfo.com"),
		UserAgent:    envOrDefault("USER_AGENT", "crash-data-etl/1.0"),
		RequestDelay: requestDelay,
		HTTPTimeout:  httpTimeout,

		OutputDir: envOrDefault("OUTPUT_DIR", "."),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		GeocodeEnabled:     geocodeEnabled,
		NominatimURL:       envOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: envOrDefault("NOMINATIM_USER_AGENT", "PlaneCrashScraper/1.0"),
		NominatimTimeout:   nominatimTimeout,
		GeocodeDelay:       geocodeDelay,
		GeocodeCacheSize:   cacheSize,

		KafkaBrokers:   splitList(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: os.Getenv("KAFKA_SINK_TOPIC"),
	}

	if cfg.StartYear > cfg.EndYear {
		return nil, fmt.Errorf("START_YEAR %d is after END_YEAR %d", cfg.StartYear, cfg.EndYear)
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("BASE_URL is required")
	}
	if cfg.RequestDelay < 0 || cfg.GeocodeDelay < 0 {
		return nil, errors.New("request and geocode delays must not be negative")
	}
	if cfg.KafkaEnabled() && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_SINK_TOPIC is set but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

// KafkaEnabled reports whether scraped records should also be published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return c.KafkaSinkTopic != ""
}

// DatasetPath returns the output CSV location derived from the year range,
// e.g. plane_crashes_2000_2025.csv under the configured output directory.
func (c *Config) DatasetPath() string {
	name := fmt.Sprintf("plane_crashes_%d_%d.csv", c.StartYear, c.EndYear)
	return filepath.Join(c.OutputDir, name)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
