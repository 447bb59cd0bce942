// Package logging builds the slog logger the commands share.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	// Format is text, json or tint.
	Format    string
	Level     string
	AddSource bool
	// File switches output from stderr to a rotated log file.
	File       string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// New returns a logger for cfg. The closer releases the log file, if any.
func New(cfg Config) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}
	var (
		w      io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(nil)
	)
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		w, closer = lj, lj
	}
	h, err := NewHandler(w, cfg.Format, level, cfg.AddSource)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(h), closer, nil
}

func NewHandler(w io.Writer, format string, level slog.Leveler, addSource bool) (slog.Handler, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level, AddSource: addSource}), nil
	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, AddSource: addSource}), nil
	case "tint":
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			AddSource:  addSource,
			TimeFormat: time.Kitchen,
		}), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
