package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"tixmojo-server/internal/logger"
	"tixmojo-server/internal/models"
)

// Producer publishes terminal payment events. In mock mode messages are
// logged instead of produced, so local development doesn't need a broker.
type Producer struct {
	completedWriter *kafka.Writer
	failedWriter    *kafka.Writer
	logger          *logger.Logger
	mockMode        bool
}

type ProducerConfig struct {
	Brokers        []string
	CompletedTopic string
	FailedTopic    string
	MockMode       bool
}

func NewProducer(cfg ProducerConfig, log *logger.Logger) *Producer {
	p := &Producer{logger: log, mockMode: cfg.MockMode}
	if cfg.MockMode {
		log.Info("KAFKA", "Producer running in mock mode, events will be logged only")
		return p
	}

	p.completedWriter = kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.CompletedTopic,
	})
	p.failedWriter = kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.FailedTopic,
	})
	return p
}

// PublishPaymentCompleted streams the completion event keyed by session id.
func (p *Producer) PublishPaymentCompleted(ctx context.Context, event models.PaymentEvent) error {
	return p.publish(ctx, p.completedWriter, event)
}

// PublishPaymentFailed streams the failure event keyed by session id.
func (p *Producer) PublishPaymentFailed(ctx context.Context, event models.PaymentEvent) error {
	return p.publish(ctx, p.failedWriter, event)
}

func (p *Producer) publish(ctx context.Context, writer *kafka.Writer, event models.PaymentEvent) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if p.mockMode {
		p.logger.Info("KAFKA", fmt.Sprintf("[mock] %s: %s", event.Status, string(msgBytes)))
		return nil
	}

	p.logger.Debug("KAFKA", fmt.Sprintf("Publishing [%s] for session %s", writer.Topic, event.SessionID))
	return writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.SessionID),
		Value: msgBytes,
	})
}

func (p *Producer) Close() error {
	if p.mockMode {
		return nil
	}
	if err := p.completedWriter.Close(); err != nil {
		return err
	}
	return p.failedWriter.Close()
}
