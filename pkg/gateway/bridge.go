package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const DefaultTopic = "ruuvi/#"

// Handler processes one gateway event received on topic.
type Handler interface {
	HandleEvent(ctx context.Context, topic string, ev Event) error
}

type HandlerFunc func(ctx context.Context, topic string, ev Event) error

func (f HandlerFunc) HandleEvent(ctx context.Context, topic string, ev Event) error {
	return f(ctx, topic, ev)
}

// Subscriber is the part of mqtt.Client the bridge needs.
type Subscriber interface {
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
	Unsubscribe(topics ...string) mqtt.Token
}

type BridgeConfig struct {
	Topic   string
	QoS     byte
	Handler Handler
	Logger  *slog.Logger
}

type Stats struct {
	Received uint64
	Invalid  uint64
	Failed   uint64
}

// Bridge feeds every gateway message on a topic filter to a Handler.
type Bridge struct {
	topic   string
	qos     byte
	handler Handler
	logger  *slog.Logger

	received atomic.Uint64
	invalid  atomic.Uint64
	failed   atomic.Uint64
}

func NewBridge(cfg BridgeConfig) *Bridge {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	return &Bridge{
		topic:   cfg.Topic,
		qos:     cfg.QoS,
		handler: cfg.Handler,
		logger:  cfg.Logger,
	}
}

// Run subscribes and blocks until ctx is done, then unsubscribes.
func (b *Bridge) Run(ctx context.Context, client Subscriber) error {
	token := client.Subscribe(b.topic, b.qos, func(_ mqtt.Client, msg mqtt.Message) {
		b.handle(ctx, msg.Topic(), msg.Payload())
	})
	if err := wait(ctx, token); err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", b.topic, err)
	}
	b.logger.LogAttrs(ctx, slog.LevelInfo, "Subscribed", slog.String("topic", b.topic), slog.Int("qos", int(b.qos)))
	<-ctx.Done()
	token = client.Unsubscribe(b.topic)
	if !token.WaitTimeout(5 * time.Second) {
		b.logger.LogAttrs(context.Background(), slog.LevelWarn, "Timeout while unsubscribing", slog.String("topic", b.topic))
	} else if err := token.Error(); err != nil {
		b.logger.LogAttrs(context.Background(), slog.LevelWarn, "Failed to unsubscribe", slog.String("topic", b.topic), slog.Any("error", err))
	}
	return nil
}

func (b *Bridge) handle(ctx context.Context, topic string, payload []byte) {
	b.received.Add(1)
	ev, err := ParseEvent(payload)
	if err != nil {
		b.invalid.Add(1)
		b.logger.LogAttrs(ctx, slog.LevelWarn, "Invalid gateway message", slog.String("topic", topic), slog.Any("error", err))
		return
	}
	if err := b.handler.HandleEvent(ctx, topic, ev); err != nil {
		b.failed.Add(1)
		level := slog.LevelWarn
		if errors.Is(err, context.Canceled) {
			level = slog.LevelDebug
		}
		b.logger.LogAttrs(ctx, level, "Failed to handle gateway event", slog.String("topic", topic), slog.String("data", ev.Data), slog.Any("error", err))
	}
}

func (b *Bridge) Stats() Stats {
	return Stats{
		Received: b.received.Load(),
		Invalid:  b.invalid.Load(),
		Failed:   b.failed.Load(),
	}
}

func wait(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
