package sink

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type AMQPConfig struct {
	URL      string
	Exchange string
	// RoutingKey is prefixed to the sensor MAC, separated by a dot.
	RoutingKey string
	Logger     *slog.Logger
}

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type amqpPublisher struct {
	cfg    AMQPConfig
	dial   func() (amqpChannel, io.Closer, error)
	now    func() time.Time
	logger *slog.Logger

	mu     sync.Mutex
	ch     amqpChannel
	conn   io.Closer
	closed bool
}

// AMQP publishes readings to a durable topic exchange. The broker
// connection is opened on first use and reopened whenever the channel has
// been closed underneath.
func AMQP(cfg AMQPConfig) Publisher {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p := &amqpPublisher{
		cfg:    cfg,
		now:    time.Now,
		logger: cfg.Logger,
	}
	p.dial = p.dialBroker
	return p
}

func (p *amqpPublisher) dialBroker() (amqpChannel, io.Closer, error) {
	masked := p.cfg.URL
	if u, err := amqp.ParseURI(p.cfg.URL); err == nil {
		u.Password = "******"
		masked = u.String()
	}
	p.logger.LogAttrs(context.Background(), slog.LevelInfo, "Connecting to RabbitMQ", slog.String("url", masked), slog.String("exchange", p.cfg.Exchange))
	conn, err := amqp.Dial(p.cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		p.cfg.Exchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return ch, conn, nil
}

func (p *amqpPublisher) channel() (amqpChannel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	if p.conn != nil {
		p.logger.LogAttrs(context.Background(), slog.LevelWarn, "RabbitMQ channel closed, reconnecting")
		p.conn.Close()
		p.ch, p.conn = nil, nil
	}
	ch, conn, err := p.dial()
	if err != nil {
		return nil, err
	}
	p.ch, p.conn = ch, conn
	return ch, nil
}

func (p *amqpPublisher) routingKey(key string) string {
	if p.cfg.RoutingKey == "" {
		return key
	}
	return p.cfg.RoutingKey + "." + key
}

func (p *amqpPublisher) Publish(ctx context.Context, key string, value []byte) error {
	ch, err := p.channel()
	if err != nil {
		return wrapErr("amqp exchange", p.cfg.Exchange, err)
	}
	err = ch.PublishWithContext(ctx,
		p.cfg.Exchange,    // exchange
		p.routingKey(key), // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        value,
			Timestamp:   p.now(),
		})
	return wrapErr("amqp exchange", p.cfg.Exchange, err)
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
