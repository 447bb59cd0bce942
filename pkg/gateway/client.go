package gateway

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type ClientConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Logger   *slog.Logger
}

// ClientOptions builds paho options for a long running gateway consumer.
// The session is persistent so the broker keeps subscriptions across
// reconnects.
func ClientOptions(cfg ClientConfig) *mqtt.ClientOptions {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	opts.SetCleanSession(false)
	opts.SetResumeSubs(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		logger.LogAttrs(context.Background(), slog.LevelInfo, "MQTT connected", slog.String("broker", cfg.Broker))
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.LogAttrs(context.Background(), slog.LevelWarn, "MQTT connection lost", slog.String("broker", cfg.Broker), slog.Any("error", err))
	})
	return opts
}

// Connect dials the broker and waits until the first connection succeeds
// or ctx is done.
func Connect(ctx context.Context, cfg ClientConfig) (mqtt.Client, error) {
	client := mqtt.NewClient(ClientOptions(cfg))
	if err := wait(ctx, client.Connect()); err != nil {
		client.Disconnect(250)
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", cfg.Broker, err)
	}
	return client, nil
}
