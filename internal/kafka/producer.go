package kafka

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	"pos-backend/internal/config"
	"pos-backend/internal/logger"
)

// Producer mirrors order lifecycle events to Kafka for downstream consumers.
// When Kafka is disabled or mock mode is on, publishes are logged and
// swallowed so the order path never depends on a broker being reachable.
type Producer struct {
	writer *kafka.Writer
	logger *logger.Logger
	mock   bool
}

func NewProducer(cfg config.KafkaConfig, log *logger.Logger) *Producer {
	if !cfg.Enabled || cfg.MockMode {
		log.Info("KAFKA", "Producer running in mock mode, events will not leave the process")
		return &Producer{logger: log, mock: true}
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("KAFKA", fmt.Sprintf("Producer connected to brokers %v", cfg.Brokers))
	return &Producer{writer: writer, logger: log}
}

func (p *Producer) Publish(topic, key string, value []byte) error {
	if p.mock {
		p.logger.Debug("KAFKA", fmt.Sprintf("[mock] %s key=%s %s", topic, key, string(value)))
		return nil
	}
	return p.writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: value,
		},
	)
}

func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
