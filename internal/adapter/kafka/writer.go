// Package kafka publishes scraped crash records to a Kafka topic for
// downstream consumers. The sink is optional; the CSV dataset remains the
// primary output.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ryanCYJ/crash-data-etl/internal/config"
	"github.com/ryanCYJ/crash-data-etl/internal/domain"
)

// Writer produces one message per crash record to the configured sink topic.
type Writer struct {
	writer *kafkago.Writer
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, clock: clockwork.NewRealClock(), logger: logger}
}

// WriteDataset serializes and publishes all records in a single
// WriteMessages call.
func (w *Writer) WriteDataset(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}
	now := w.clock.Now()
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i], now)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish records: %w", err)
	}
	w.logger.Info("records published", "topic", w.writer.Topic, "count", len(records))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a record into a Kafka message keyed by its
// source URL. Null cells become JSON nulls.
func serializeToMessage(rec domain.Record, at time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize record: %w", err)
	}
	key, _ := rec[domain.FieldURL].Text()
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("planecrashinfo")},
			{Key: "scraped_at", Value: []byte(at.Format(time.RFC3339))},
		},
	}, nil
}
