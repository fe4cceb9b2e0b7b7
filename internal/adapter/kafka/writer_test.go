package kafka

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandgroper/shorecast/internal/config"
	"github.com/sandgroper/shorecast/internal/domain"
)

func TestNewWriter(t *testing.T) {
	cfg := &config.Config{
		KafkaBrokers:   []string{"kafka-1:9092", "kafka-2:9092"},
		KafkaSinkTopic: "beach-forecasts",
	}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NotNil(t, w)
	assert.Equal(t, "beach-forecasts", w.writer.Topic)
	assert.NotNil(t, w.writer.Addr)
}

func TestSerializeToMessage(t *testing.T) {
	meta := domain.RunMeta{
		GeneratedAt: time.Date(2026, 2, 2, 5, 0, 0, 0, time.UTC),
		Mode:        "v6",
	}
	score := 8.7
	df := domain.DailyForecast{
		Date:         "2026-02-02",
		Location:     "Mettams Pool",
		SnorkelScore: &score,
		SnorkelLabel: "Great",
	}

	msg, err := serializeToMessage(meta, df)
	require.NoError(t, err)

	assert.Equal(t, "2026-02-02|Mettams Pool", string(msg.Key))

	var decoded domain.DailyForecast
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, df, decoded)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "mode", msg.Headers[0].Key)
	assert.Equal(t, "v6", string(msg.Headers[0].Value))
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, "2026-02-02T05:00:00Z", string(msg.Headers[1].Value))
}
