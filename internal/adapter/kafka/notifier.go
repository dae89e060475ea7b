package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/rainfall-grid-etl/internal/config"
	"github.com/couchcryptid/rainfall-grid-etl/internal/domain"
)

// messageWriter is the subset of *kafkago.Writer the notifier uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Notifier publishes DatasetFetched events to a Kafka topic.
// It implements pipeline.Notifier.
type Notifier struct {
	writer messageWriter
	logger *slog.Logger
}

// NewNotifier creates a Kafka producer for the configured dataset topic.
func NewNotifier(cfg *config.Config, logger *slog.Logger) *Notifier {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Notifier{writer: w, logger: logger}
}

// NotifyFetched publishes one event keyed by year.
func (n *Notifier) NotifyFetched(ctx context.Context, ev domain.DatasetFetched) error {
	msg, err := serializeToMessage(ev)
	if err != nil {
		return err
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish dataset %s: %w", ev.Year, err)
	}
	n.logger.Debug("dataset notification published", "year", int(ev.Year))
	return nil
}

// Close flushes and closes the producer.
func (n *Notifier) Close() error {
	return n.writer.Close()
}

// serializeToMessage marshals a DatasetFetched into a Kafka message.
func serializeToMessage(ev domain.DatasetFetched) (kafkago.Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize dataset event: %w", err)
	}
	year := strconv.Itoa(int(ev.Year))
	return kafkago.Message{
		Key:   []byte(year),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "year", Value: []byte(year)},
			{Key: "fetched_at", Value: []byte(ev.FetchedAt.Format(time.RFC3339))},
		},
	}, nil
}
