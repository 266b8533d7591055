package eventsclient

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-platform/pkg/core/model"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewProducer_NotConfigured(t *testing.T) {
	producer := NewProducer(Config{}, zap.NewNop())
	assert.Nil(t, producer)

	// A nil producer skips publishing
	err := producer.PublishReviewDecided(context.Background(), model.ReviewDecided{ID: "org-1"})
	assert.NoError(t, err)
	assert.NoError(t, producer.Close())
}

func TestNewProducer_Configured(t *testing.T) {
	producer := NewProducer(Config{
		Brokers:  []string{"localhost:9092"},
		Topic:    "review-events",
		Username: "user",
		Password: "secret",
	}, zap.NewNop())

	require.NotNil(t, producer)
	writer, ok := producer.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "review-events", writer.Topic)
}

func TestPublishReviewDecided(t *testing.T) {
	writer := &fakeWriter{}
	producer := &Producer{writer: writer, logger: zap.NewNop()}
	decidedAt := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	err := producer.PublishReviewDecided(context.Background(), model.ReviewDecided{
		Type:           model.ReviewTypeActivity,
		ID:             "act-1",
		Action:         model.ActionApprove,
		Status:         "recruiting",
		RecipientID:    "user-1",
		NotificationID: "notif-1",
		DecidedAt:      decidedAt,
	})

	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "act-1", string(msg.Key))
	assert.Equal(t, decidedAt, msg.Time)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, "activity", payload["type"])
	assert.Equal(t, "approve", payload["action"])
	assert.Equal(t, "recruiting", payload["status"])
	assert.Equal(t, "notif-1", payload["notification_id"])
}

func TestPublishReviewDecided_WriterError(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker unavailable")}
	producer := &Producer{writer: writer, logger: zap.NewNop()}

	err := producer.PublishReviewDecided(context.Background(), model.ReviewDecided{ID: "vol-1"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish review event")
}

func TestClose(t *testing.T) {
	writer := &fakeWriter{}
	producer := &Producer{writer: writer, logger: zap.NewNop()}

	require.NoError(t, producer.Close())
	assert.True(t, writer.closed)
}
