package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEvent = `{
	"gw_mac": "A1:B2:C3:D4:E5:F6",
	"rssi": -62,
	"aoa": [],
	"gwts": "1659972117",
	"ts": "1659972116",
	"data": "0201061BFF99040512FC5394C37C0004FFFC040CAC364200CDCBB8334C884F",
	"coords": ""
}`

func TestParseEvent(t *testing.T) {
	t.Parallel()

	t.Run("string timestamps", func(t *testing.T) {
		t.Parallel()

		ev, err := ParseEvent([]byte(testEvent))
		require.NoError(t, err)
		assert.Equal(t, "A1:B2:C3:D4:E5:F6", ev.GatewayMAC)
		assert.Equal(t, -62, ev.RSSI)
		assert.Equal(t, time.Unix(1659972116, 0).UTC(), ev.TS.Time)
		assert.Equal(t, time.Unix(1659972117, 0).UTC(), ev.GatewayTS.Time)
		assert.Equal(t, "0201061BFF99040512FC5394C37C0004FFFC040CAC364200CDCBB8334C884F", ev.Data)
	})
	t.Run("numeric timestamps", func(t *testing.T) {
		t.Parallel()

		ev, err := ParseEvent([]byte(`{"gw_mac":"A1:B2:C3:D4:E5:F6","rssi":-70,"gwts":1700000000,"ts":1700000001,"data":"AA"}`))
		require.NoError(t, err)
		assert.Equal(t, int64(1700000001), ev.TS.Unix())
		assert.Equal(t, int64(1700000000), ev.GatewayTS.Unix())
	})
	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		for _, s := range []string{
			`not json`,
			`{"rssi":-70}`,
			`{"ts":"yesterday","data":"AA"}`,
		} {
			_, err := ParseEvent([]byte(s))
			assert.ErrorIs(t, err, ErrInvalidEvent, s)
		}
	})
}

func TestEventTime(t *testing.T) {
	t.Parallel()

	fallback := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	ts := time.Unix(1659972116, 0).UTC()
	gwts := time.Unix(1659972117, 0).UTC()
	assert.Equal(t, ts, Event{TS: Timestamp{ts}, GatewayTS: Timestamp{gwts}}.Time(fallback))
	assert.Equal(t, gwts, Event{GatewayTS: Timestamp{gwts}}.Time(fallback))
	assert.Equal(t, fallback, Event{}.Time(fallback))
}

func TestTimestampMarshalJSON(t *testing.T) {
	t.Parallel()

	b, err := Timestamp{time.Unix(1659972116, 0)}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "1659972116", string(b))
	b, err = Timestamp{}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestTagMAC(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cb:b8:33:4c:88:4f", TagMAC("ruuvi/A1:B2:C3:D4:E5:F6/CB:B8:33:4C:88:4F"))
	assert.Equal(t, "cb:b8:33:4c:88:4f", TagMAC("cb:b8:33:4c:88:4f"))
	assert.Empty(t, TagMAC("ruuvi/A1:B2:C3:D4:E5:F6"+"/gw_status"))
	assert.Empty(t, TagMAC("ruuvi/CB-B8-33-4C-88-4F"))
	assert.Empty(t, TagMAC("ruuvi/CB:B8:33:4C:88:4G"))
	assert.Empty(t, TagMAC(""))
}

type token struct {
	err error
}

func (t token) Wait() bool                     { return true }
func (t token) WaitTimeout(time.Duration) bool { return true }
func (t token) Error() error                   { return t.err }

func (t token) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type message struct {
	topic   string
	payload []byte
}

func (m message) Duplicate() bool   { return false }
func (m message) Qos() byte         { return 0 }
func (m message) Retained() bool    { return false }
func (m message) Topic() string     { return m.topic }
func (m message) MessageID() uint16 { return 0 }
func (m message) Payload() []byte   { return m.payload }
func (m message) Ack()              {}

type fakeSubscriber struct {
	mu           sync.Mutex
	topic        string
	qos          byte
	callback     mqtt.MessageHandler
	unsubscribed []string
	subErr       error
	subscribed   chan struct{}
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{subscribed: make(chan struct{})}
}

func (s *fakeSubscriber) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topic, s.qos, s.callback = topic, qos, callback
	if s.subErr == nil {
		close(s.subscribed)
	}
	return token{err: s.subErr}
}

func (s *fakeSubscriber) Unsubscribe(topics ...string) mqtt.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unsubscribed = append(s.unsubscribed, topics...)
	return token{}
}

func (s *fakeSubscriber) deliver(topic, payload string) {
	s.mu.Lock()
	cb := s.callback
	s.mu.Unlock()
	cb(nil, message{topic: topic, payload: []byte(payload)})
}

func TestBridge(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		topics []string
		events []Event
	)
	handler := HandlerFunc(func(ctx context.Context, topic string, ev Event) error {
		mu.Lock()
		defer mu.Unlock()
		topics = append(topics, topic)
		events = append(events, ev)
		if ev.Data == "FAIL" {
			return errors.New("decode failed")
		}
		return nil
	})
	b := NewBridge(BridgeConfig{QoS: 1, Handler: handler})
	sub := newFakeSubscriber()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- b.Run(ctx, sub)
	}()
	<-sub.subscribed
	assert.Equal(t, DefaultTopic, sub.topic)
	assert.Equal(t, byte(1), sub.qos)

	sub.deliver("ruuvi/A1:B2:C3:D4:E5:F6/CB:B8:33:4C:88:4F", testEvent)
	sub.deliver("ruuvi/A1:B2:C3:D4:E5:F6/CB:B8:33:4C:88:4F", `{"data":"FAIL"}`)
	sub.deliver("ruuvi/A1:B2:C3:D4:E5:F6/gw_status", `{"state":"online"}`)

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, []string{DefaultTopic}, sub.unsubscribed)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 2)
	assert.Equal(t, -62, events[0].RSSI)
	assert.Equal(t, "ruuvi/A1:B2:C3:D4:E5:F6/CB:B8:33:4C:88:4F", topics[0])
	assert.Equal(t, Stats{Received: 3, Invalid: 1, Failed: 1}, b.Stats())
}

func TestBridgeSubscribeError(t *testing.T) {
	t.Parallel()

	sub := newFakeSubscriber()
	sub.subErr = errors.New("not authorized")
	b := NewBridge(BridgeConfig{Topic: "ruuvi/+/+", Handler: HandlerFunc(func(context.Context, string, Event) error {
		return nil
	})})
	err := b.Run(context.Background(), sub)
	assert.ErrorContains(t, err, "ruuvi/+/+")
	assert.ErrorIs(t, err, sub.subErr)
}
