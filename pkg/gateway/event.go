// Package gateway consumes the BLE advertisements a Ruuvi Gateway relays
// over MQTT.
package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidEvent = errors.New("invalid gateway event")

// Event is one advertisement as published by a Ruuvi Gateway. Data holds
// the complete advertisement in hex.
type Event struct {
	GatewayMAC string    `json:"gw_mac"`
	RSSI       int       `json:"rssi"`
	AoA        []int     `json:"aoa"`
	GatewayTS  Timestamp `json:"gwts"`
	TS         Timestamp `json:"ts"`
	Data       string    `json:"data"`
	Coords     string    `json:"coords"`
}

// Timestamp is a Unix time in seconds. Gateway firmware has sent it both as
// a JSON string and as a number.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		t.Time = time.Time{}
		return nil
	}
	sec, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: timestamp %q", ErrInvalidEvent, b)
	}
	t.Time = time.Unix(sec, 0).UTC()
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(strconv.FormatInt(t.Unix(), 10)), nil
}

// ParseEvent unmarshals a gateway message and checks it carries data.
func ParseEvent(payload []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if ev.Data == "" {
		return Event{}, fmt.Errorf("%w: missing data", ErrInvalidEvent)
	}
	return ev, nil
}

// Time returns when the gateway received the advertisement, falling back to
// the gateway's own clock and then to fallback.
func (ev Event) Time(fallback time.Time) time.Time {
	switch {
	case !ev.TS.IsZero():
		return ev.TS.Time
	case !ev.GatewayTS.IsZero():
		return ev.GatewayTS.Time
	default:
		return fallback
	}
}

// TagMAC returns the sensor address from the last level of a gateway topic
// such as ruuvi/<gw_mac>/<tag_mac>, lowercased. It returns "" when the level
// is not a MAC address.
func TagMAC(topic string) string {
	level := topic[strings.LastIndexByte(topic, '/')+1:]
	if len(level) != 17 {
		return ""
	}
	for i := 0; i < len(level); i++ {
		c := level[i]
		if i%3 == 2 {
			if c != ':' {
				return ""
			}
			continue
		}
		if !isHex(c) {
			return ""
		}
	}
	return strings.ToLower(level)
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
