// Package sink publishes encoded readings to message brokers.
package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

var ErrClosed = errors.New("sink closed")

// Publisher delivers one message keyed by sensor MAC address.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
	io.Closer
}

type multi struct {
	publishers []Publisher
}

// Multi fans every message out to all publishers. All publishers are tried
// even if one fails.
func Multi(publishers ...Publisher) Publisher {
	if len(publishers) == 1 {
		return publishers[0]
	}
	return &multi{publishers: publishers}
}

func (m *multi) Publish(ctx context.Context, key string, value []byte) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, key, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *multi) Close() error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type logPublisher struct {
	logger *slog.Logger
	level  slog.Level
}

// Log writes every message to logger instead of a broker.
func Log(logger *slog.Logger, level slog.Level) Publisher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &logPublisher{logger: logger, level: level}
}

func (p *logPublisher) Publish(ctx context.Context, key string, value []byte) error {
	p.logger.LogAttrs(ctx, p.level, "Reading", slog.String("mac", key), slog.String("value", string(value)))
	return nil
}

func (p *logPublisher) Close() error {
	return nil
}

type noop struct{}

// Noop discards every message.
func Noop() Publisher {
	return noop{}
}

func (noop) Publish(context.Context, string, []byte) error {
	return nil
}

func (noop) Close() error {
	return nil
}

func wrapErr(kind, target string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("publish to %s %s: %w", kind, target, err)
}
