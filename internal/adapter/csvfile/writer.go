// Package csvfile serializes accumulated crash records into a single
// delimited dataset file.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"github.com/ryanCYJ/crash-data-etl/internal/config"
	"github.com/ryanCYJ/crash-data-etl/internal/domain"
	"github.com/ryanCYJ/crash-data-etl/internal/observability"
)

// Writer writes the dataset as UTF-8, comma-separated text with one header
// row. The column set is the union of field names across all records; cells
// for absent or null fields are empty. No index column is written.
type Writer struct {
	path    string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates a dataset writer targeting the year-range-derived path.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	return &Writer{
		path:    cfg.DatasetPath(),
		metrics: metrics,
		logger:  logger,
	}
}

// Path returns the output file location.
func (w *Writer) Path() string { return w.path }

// WriteDataset serializes all records to the output file in one pass.
func (w *Writer) WriteDataset(_ context.Context, records []domain.Record) error {
	cols := domain.Columns(records)

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", w.path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(cols))
	for _, rec := range records {
		for i, col := range cols {
			row[i] = rec[col].String()
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", w.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", w.path, err)
	}

	w.metrics.DatasetRows.Set(float64(len(records)))
	w.logger.Info("dataset written", "path", w.path, "rows", len(records), "columns", len(cols))
	return nil
}
