package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ryanCYJ/crash-data-etl/internal/adapter/csvfile"
	httpadapter "github.com/ryanCYJ/crash-data-etl/internal/adapter/http"
	kafkaadapter "github.com/ryanCYJ/crash-data-etl/internal/adapter/kafka"
	"github.com/ryanCYJ/crash-data-etl/internal/adapter/nominatim"
	"github.com/ryanCYJ/crash-data-etl/internal/adapter/source"
	"github.com/ryanCYJ/crash-data-etl/internal/config"
	"github.com/ryanCYJ/crash-data-etl/internal/domain"
	"github.com/ryanCYJ/crash-data-etl/internal/observability"
	"github.com/ryanCYJ/crash-data-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	archive := source.NewClient(cfg, metrics, logger)

	// Geocoding is feature-flagged via GEOCODE_ENABLED.
	var geocoder domain.Geocoder
	if cfg.GeocodeEnabled {
		client := nominatim.NewClient(cfg, metrics, logger)
		geocoder = nominatim.NewCachedGeocoder(client, cfg.GeocodeCacheSize, metrics, logger)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("geocoding enabled", "cache_size", cfg.GeocodeCacheSize, "delay", cfg.GeocodeDelay)
	} else {
		logger.Info("geocoding disabled")
	}

	sinks := []pipeline.DatasetSink{csvfile.NewWriter(cfg, metrics, logger)}

	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled() {
		kafkaWriter = kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, kafkaWriter)
		logger.Info("kafka sink enabled", "topic", cfg.KafkaSinkTopic)
	}

	scraper := pipeline.New(archive, geocoder, sinks, cfg.StartYear, cfg.EndYear, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, scraper, scraper, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Operational endpoints stay up for the duration of the run.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	runErr := scraper.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("scrape failed", "error", runErr)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
