package kafkaclient

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"ipcammap/internal/models"
)

// KafkaWriter defines the interface for a Kafka message writer.
// This allows for easy mocking in unit tests.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Envelope is the message body published for each camera record.
type Envelope struct {
	RunID       string              `json:"run_id"`
	CollectedAt time.Time           `json:"collected_at"`
	Camera      models.CameraRecord `json:"camera"`
}

// Producer publishes camera records to a single topic.
type Producer struct {
	writer KafkaWriter
	now    func() time.Time
}

// NewProducer creates a producer for topic on broker.
func NewProducer(broker, topic string) *Producer {
	return NewProducerWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
	})
}

// NewProducerWithWriter wraps an existing writer.
func NewProducerWithWriter(w KafkaWriter) *Producer {
	return &Producer{writer: w, now: time.Now}
}

// Publish sends one message per record, keyed by address, in a single batch.
func (p *Producer) Publish(ctx context.Context, runID string, records []models.CameraRecord) error {
	if len(records) == 0 {
		return nil
	}
	at := p.now().UTC()
	msgs := make([]kafka.Message, 0, len(records))
	for _, r := range records {
		body, err := json.Marshal(Envelope{RunID: runID, CollectedAt: at, Camera: r})
		if err != nil {
			return eris.Wrapf(err, "kafkaclient: marshal %s", r.Address)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(r.Address), Value: body})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return eris.Wrapf(err, "kafkaclient: write %d messages", len(msgs))
	}
	zap.L().Info("records published", zap.String("run_id", runID), zap.Int("count", len(msgs)))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil {
		return eris.Wrap(err, "kafkaclient: close writer")
	}
	return nil
}
