// Package kafka publishes forecast events for downstream consumers
// (dashboard renderers, notification fan-out) that subscribe to the sink
// topic instead of polling the service.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/sandgroper/shorecast/internal/config"
	"github.com/sandgroper/shorecast/internal/domain"
)

// Writer produces forecast messages to the sink topic.
type Writer struct {
	writer *kafkago.Writer
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
	return &Writer{writer: w, logger: logger}
}

// PublishRun serializes each day's forecasts as individual messages keyed by
// date|location, written in a single WriteMessages call. Returns the number
// of messages published.
func (w *Writer) PublishRun(ctx context.Context, run *domain.ForecastRun) (int, error) {
	var msgs []kafkago.Message
	for _, day := range run.Days {
		for i := range day.Forecasts {
			msg, err := serializeToMessage(run.Meta, day.Forecasts[i])
			if err != nil {
				return 0, err
			}
			msgs = append(msgs, msg)
		}
	}
	if len(msgs) == 0 {
		return 0, nil
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return 0, err
	}
	return len(msgs), nil
}

// Close flushes and closes the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

func serializeToMessage(meta domain.RunMeta, df domain.DailyForecast) (kafkago.Message, error) {
	data, err := json.Marshal(df)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize daily forecast: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(df.Date + "|" + df.Location),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "mode", Value: []byte(meta.Mode)},
			{Key: "generated_at", Value: []byte(meta.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
