// Package eventsclient publishes domain events to Kafka.
package eventsclient

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-platform/pkg/core/model"
)

const publishTimeout = 5 * time.Second

// Config holds the broker connection settings
type Config struct {
	Brokers  []string
	Topic    string
	Username string
	Password string
	TLS      bool
}

// messageWriter is the part of kafka.Writer the producer uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes review events. A nil Producer, or one built without
// brokers, skips every publish.
type Producer struct {
	writer messageWriter
	logger *zap.Logger
}

// NewProducer creates a producer for the configured topic. It returns nil when
// no brokers are configured so callers can run without an event bus.
func NewProducer(cfg Config, logger *zap.Logger) *Producer {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		logger.Info("Kafka not configured, review events will not be published")
		return nil
	}

	transport := &kafka.Transport{}
	if cfg.Username != "" {
		transport.SASL = plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}
	if cfg.TLS {
		transport.TLS = &tls.Config{}
	}

	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			Transport:    transport,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// PublishReviewDecided publishes the event keyed by the reviewed entity ID
func (p *Producer) PublishReviewDecided(ctx context.Context, event model.ReviewDecided) error {
	if p == nil || p.writer == nil {
		return nil
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal review event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ID),
		Value: value,
		Time:  event.DecidedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("ReviewDecided")},
		},
	}); err != nil {
		return fmt.Errorf("failed to publish review event: %w", err)
	}

	p.logger.Debug("Published review event",
		zap.String("type", string(event.Type)),
		zap.String("id", event.ID),
		zap.String("status", event.Status))

	return nil
}

// Close flushes and closes the underlying writer
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
