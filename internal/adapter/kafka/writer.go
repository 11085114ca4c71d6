package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/disasterscience/nexrad/internal/config"
	"github.com/disasterscience/nexrad/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces sweep summaries to a Kafka topic.
// It implements pipeline.SummarySink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured summary topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one sweep summary and writes it to the topic.
// The summary ID keys the message so replays land on the same partition
// and downstream consumers can deduplicate.
func (w *Writer) Publish(ctx context.Context, summary domain.SweepSummary) error {
	msg, err := serializeToMessage(summary)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a SweepSummary into a Kafka message.
func serializeToMessage(summary domain.SweepSummary) (kafkago.Message, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize sweep summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(summary.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "site", Value: []byte(summary.Site)},
			{Key: "processed_at", Value: []byte(summary.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
