package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanCYJ/crash-data-etl/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	rec := domain.Record{
		domain.FieldDate:        domain.TextCell("July 28, 2001"),
		domain.FieldTime:        domain.NullCell(),
		domain.FieldAboardTotal: domain.IntCell(7),
		domain.FieldLatitude:    domain.FloatCell(41.8781),
		domain.FieldURL:         domain.TextCell("http://archive.test/2001/2001-1.htm"),
	}
	at := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	msg, err := serializeToMessage(rec, at)
	require.NoError(t, err)

	assert.Equal(t, "http://archive.test/2001/2001-1.htm", string(msg.Key),
		"messages are keyed by source URL")

	assert.JSONEq(t, `{
		"Date": "July 28, 2001",
		"Time": null,
		"Aboard Total": 7,
		"Latitude": 41.8781,
		"Url": "http://archive.test/2001/2001-1.htm"
	}`, string(msg.Value))

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "source", msg.Headers[0].Key)
	assert.Equal(t, "planecrashinfo", string(msg.Headers[0].Value))
	assert.Equal(t, "scraped_at", msg.Headers[1].Key)
	assert.Equal(t, "2026-08-25T12:00:00Z", string(msg.Headers[1].Value))
}

func TestSerializeToMessage_MissingURL(t *testing.T) {
	rec := domain.Record{domain.FieldDate: domain.TextCell("July 28, 2001")}

	msg, err := serializeToMessage(rec, time.Now())
	require.NoError(t, err)
	assert.Empty(t, msg.Key)
}
