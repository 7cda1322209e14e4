//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/ryanCYJ/crash-data-etl/internal/adapter/kafka"
	"github.com/ryanCYJ/crash-data-etl/internal/config"
	"github.com/ryanCYJ/crash-data-etl/internal/domain"
)

const sinkTopic = "scraped-crash-records"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-node broker in a container and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	ctr, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("crash-data-etl-test"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, ctr.Terminate(context.Background()))
	})

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctl.Close()

	require.NoError(t, ctl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func TestKafkaSink_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, sinkTopic)

	cfg := &config.Config{
		KafkaBrokers:   []string{broker},
		KafkaSinkTopic: sinkTopic,
	}
	writer := kafkaadapter.NewWriter(cfg, testLogger())
	defer writer.Close()

	rec := domain.Record{}
	rec.SetField("Date", "July 28, 2001")
	rec.SetField("Time", "1600")
	rec.SetField("Location", "Near Chicago, Illinois")
	rec.SetField("Aboard", "7 (passengers:6 crew:1)")
	rec.SetField("Fatalities", "?")
	rec[domain.FieldURL] = domain.TextCell("http://archive.test/2001/2001-1.htm")

	require.NoError(t, writer.WriteDataset(ctx, []domain.Record{rec}))

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       sinkTopic,
		StartOffset: kafkago.FirstOffset,
		MaxWait:     time.Second,
	})
	defer reader.Close()

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)

	assert.Equal(t, "http://archive.test/2001/2001-1.htm", string(msg.Key))

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "planecrashinfo", headers["source"])
	_, err = time.Parse(time.RFC3339, headers["scraped_at"])
	assert.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, "July 28, 2001", payload["Date"])
	assert.Equal(t, "16:00", payload["Time"])
	assert.Equal(t, float64(7), payload["Aboard Total"])
	assert.Nil(t, payload["Fatalities Total"])
}
