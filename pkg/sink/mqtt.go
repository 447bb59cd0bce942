package sink

import (
	"context"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTClient is the part of mqtt.Client used for publishing.
type MQTTClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

type MQTTConfig struct {
	// Topic prefix; the sensor MAC is appended as the last topic level.
	Topic    string
	QoS      byte
	Retained bool
}

type mqttPublisher struct {
	client MQTTClient
	cfg    MQTTConfig
}

// MQTT republishes readings through an already connected client. Closing
// the publisher leaves the client connected.
func MQTT(client MQTTClient, cfg MQTTConfig) Publisher {
	cfg.Topic = strings.TrimSuffix(cfg.Topic, "/")
	return &mqttPublisher{client: client, cfg: cfg}
}

func (p *mqttPublisher) topic(key string) string {
	if p.cfg.Topic == "" {
		return key
	}
	return p.cfg.Topic + "/" + key
}

func (p *mqttPublisher) Publish(ctx context.Context, key string, value []byte) error {
	topic := p.topic(key)
	token := p.client.Publish(topic, p.cfg.QoS, p.cfg.Retained, value)
	select {
	case <-token.Done():
		return wrapErr("mqtt topic", topic, token.Error())
	case <-ctx.Done():
		return wrapErr("mqtt topic", topic, ctx.Err())
	}
}

func (p *mqttPublisher) Close() error {
	return nil
}
