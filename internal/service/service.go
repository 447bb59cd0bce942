package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/niktheblak/ruuvitag-common/pkg/sensor"

	"github.com/niktheblak/ruuvitag-decoder/pkg/gateway"
	"github.com/niktheblak/ruuvitag-decoder/pkg/ruuvi"
	"github.com/niktheblak/ruuvitag-decoder/pkg/sink"
)

type Config struct {
	// Names maps sensor MAC addresses to display names.
	Names map[string]string
	// KnownOnly drops readings from sensors missing from Names.
	KnownOnly bool
	Columns   map[string]string
	Sink      sink.Publisher
	Logger    *slog.Logger
}

type Service interface {
	// Decode decodes hex input of any form ruuvi.DecodeHex accepts.
	Decode(ctx context.Context, data string) (Reading, error)
	// DecodeEvent decodes the complete advertisement a gateway relayed.
	DecodeEvent(ctx context.Context, topic string, ev gateway.Event) (Reading, error)
	// HandleEvent decodes a gateway event and publishes the reading.
	HandleEvent(ctx context.Context, topic string, ev gateway.Event) error
	ColumnMap(requestedColumns []string) (map[string]string, error)
	io.Closer
}

type service struct {
	names     map[string]string
	knownOnly bool
	columnMap map[string]string
	sink      sink.Publisher
	now       func() time.Time
	logger    *slog.Logger
}

// New creates a new instance of the service using the given config
func New(cfg Config) (Service, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if len(cfg.Columns) == 0 {
		cfg.Columns = sensor.DefaultColumnMap
	}
	if err := sensor.ValidateColumnMapping(cfg.Columns); err != nil {
		return nil, err
	}
	if cfg.Sink == nil {
		cfg.Sink = sink.Noop()
	}
	names := make(map[string]string, len(cfg.Names))
	for mac, name := range cfg.Names {
		names[strings.ToLower(mac)] = name
	}
	cfg.Logger.LogAttrs(context.Background(), slog.LevelDebug, "Columns", slog.Any("column_map", cfg.Columns))
	return &service{
		names:     names,
		knownOnly: cfg.KnownOnly,
		columnMap: cfg.Columns,
		sink:      cfg.Sink,
		now:       time.Now,
		logger:    cfg.Logger,
	}, nil
}

func (s *service) Decode(ctx context.Context, data string) (Reading, error) {
	d, err := ruuvi.DecodeHex(data)
	if err != nil {
		return Reading{}, err
	}
	r := s.reading(d, "", s.now().UTC())
	s.logger.LogAttrs(ctx, slog.LevelDebug, "Decoded", slog.String("mac", r.MAC), slog.String("format", r.Format.String()))
	return r, nil
}

func (s *service) DecodeEvent(ctx context.Context, topic string, ev gateway.Event) (Reading, error) {
	adv, err := ruuvi.ParseHex(ev.Data)
	if err != nil {
		return Reading{}, err
	}
	d, err := ruuvi.DecodeAdvertisement(adv)
	if err != nil {
		return Reading{}, err
	}
	r := s.reading(d, gateway.TagMAC(topic), ev.Time(s.now().UTC()))
	r.Gateway = strings.ToLower(ev.GatewayMAC)
	rssi := ev.RSSI
	r.RSSI = &rssi
	return r, nil
}

func (s *service) HandleEvent(ctx context.Context, topic string, ev gateway.Event) error {
	r, err := s.DecodeEvent(ctx, topic, ev)
	switch {
	case errors.Is(err, ruuvi.ErrNotFound):
		// gateways relay every BLE device in range
		s.logger.LogAttrs(ctx, slog.LevelDebug, "Not a Ruuvi advertisement", slog.String("topic", topic))
		return nil
	case err != nil:
		return err
	}
	if s.knownOnly && r.Name == "" {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "Skipping unknown sensor", slog.String("mac", r.MAC))
		return nil
	}
	return s.publish(ctx, r)
}

func (s *service) publish(ctx context.Context, r Reading) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}
	if err := s.sink.Publish(ctx, r.Key(), body); err != nil {
		return err
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, "Published reading", slog.String("mac", r.MAC), slog.String("name", r.Name))
	return nil
}

// reading prefers the address from the gateway topic since V6 payloads
// carry only the lower half of it.
func (s *service) reading(d ruuvi.Data, topicMAC string, ts time.Time) Reading {
	mac := d.MAC()
	if topicMAC != "" {
		mac = topicMAC
	}
	r := Reading{
		Name:      s.names[mac],
		MAC:       mac,
		Format:    d.Format(),
		Timestamp: ts,
		Data:      d,
	}
	if aqi, ok := ruuvi.AirQuality(d); ok {
		r.AirQuality = &aqi
	}
	return r
}

func (s *service) Close() error {
	return s.sink.Close()
}
