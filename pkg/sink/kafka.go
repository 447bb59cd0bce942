package sink

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

type KafkaConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
	Async        bool
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	w     messageWriter
	topic string
}

// Kafka writes readings to a topic keyed by MAC address so all readings of
// one sensor land on the same partition.
func Kafka(cfg KafkaConfig) Publisher {
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           cfg.WriteTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  cfg.Async,
	}
	return &kafkaPublisher{w: w, topic: cfg.Topic}
}

func (p *kafkaPublisher) Publish(ctx context.Context, key string, value []byte) error {
	err := p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
	return wrapErr("kafka topic", p.topic, err)
}

func (p *kafkaPublisher) Close() error {
	return p.w.Close()
}
