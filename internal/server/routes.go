package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/niktheblak/ruuvitag-common/pkg/sensor"

	"github.com/niktheblak/ruuvitag-decoder/internal/service"
	"github.com/niktheblak/ruuvitag-decoder/pkg/gateway"
	"github.com/niktheblak/ruuvitag-decoder/pkg/ruuvi"
)

const maxBodySize = 64 << 10

var columnsPattern = regexp.MustCompile(`^[\w,]*\w$`)

// decodeRequest is either {"data": "..."} holding any hex form, or a
// gateway event whose data is a complete advertisement.
type decodeRequest struct {
	gateway.Event
	Topic string `json:"topic"`
}

func decodeHandler(svc service.Service, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loc, err := parseLocation(r.URL.Query().Get("tz"))
		if err != nil {
			logger.LogAttrs(r.Context(), slog.LevelWarn, "Invalid timezone", slog.String("timezone", r.URL.Query().Get("tz")), slog.Any("error", err))
			http.Error(w, "Invalid timezone", http.StatusBadRequest)
			return
		}
		columns, err := parseColumns(r.URL.Query().Get("columns"))
		if err != nil {
			http.Error(w, "Invalid columns", http.StatusBadRequest)
			return
		}
		logger.LogAttrs(r.Context(), slog.LevelDebug, "Columns from query", slog.Any("columns", columns))
		columnMap, err := svc.ColumnMap(columns)
		switch {
		case errors.Is(err, sensor.ErrInvalidColumn), errors.Is(err, sensor.ErrMissingColumn):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case err != nil:
			logger.LogAttrs(r.Context(), slog.LevelError, "Error while resolving columns", slog.Any("error", err))
			http.Error(w, "Error while resolving columns", http.StatusInternalServerError)
			return
		}
		data := r.URL.Query().Get("data")
		if data == "" {
			http.Error(w, "Missing data", http.StatusBadRequest)
			return
		}
		reading, err := svc.Decode(r.Context(), data)
		if err != nil {
			decodeError(w, r, logger, err)
			return
		}
		writeJSON(w, r, logger, createResponse(reading.Fields(), columnMap, loc))
	})
}

func decodeBodyHandler(svc service.Service, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req decodeRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Data == "" {
			http.Error(w, "Missing data", http.StatusBadRequest)
			return
		}
		var (
			reading service.Reading
			err     error
		)
		if req.GatewayMAC != "" {
			reading, err = svc.DecodeEvent(r.Context(), req.Topic, req.Event)
		} else {
			reading, err = svc.Decode(r.Context(), req.Data)
		}
		if err != nil {
			decodeError(w, r, logger, err)
			return
		}
		writeJSON(w, r, logger, reading)
	})
}

func decodeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, ruuvi.ErrInvalidHex),
		errors.Is(err, ruuvi.ErrInvalidLength),
		errors.Is(err, ruuvi.ErrUnsupportedFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ruuvi.ErrNotFound):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, context.Canceled):
	default:
		logger.LogAttrs(r.Context(), slog.LevelError, "Error while decoding", slog.Any("error", err))
		http.Error(w, "Error while decoding", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.LogAttrs(r.Context(), slog.LevelError, "Error while writing output", slog.Any("error", err))
	}
}

func parseLocation(tz string) (loc *time.Location, err error) {
	if tz != "" {
		loc, err = time.LoadLocation(tz)
		return
	}
	loc = time.UTC
	return
}

func parseColumns(columns string) ([]string, error) {
	if columns == "" {
		return nil, nil
	}
	if !columnsPattern.MatchString(columns) {
		return nil, fmt.Errorf("invalid columns: %s", columns)
	}
	return strings.Split(columns, ","), nil
}

func createResponse(d sensor.Fields, columns map[string]string, loc *time.Location) map[string]any {
	m := make(map[string]any)
	m[columns["time"]] = d.Timestamp.In(loc)
	if c, ok := columns["mac"]; ok && d.Addr != nil {
		m[c] = *d.Addr
	}
	if c, ok := columns["name"]; ok && d.Name != nil {
		m[c] = *d.Name
	}
	if c, ok := columns["temperature"]; ok && d.Temperature != nil {
		m[c] = *d.Temperature
	}
	if c, ok := columns["humidity"]; ok && d.Humidity != nil {
		m[c] = *d.Humidity
	}
	if c, ok := columns["pressure"]; ok && d.Pressure != nil {
		m[c] = *d.Pressure
	}
	if c, ok := columns["battery_voltage"]; ok && d.BatteryVoltage != nil {
		m[c] = *d.BatteryVoltage
	}
	if c, ok := columns["tx_power"]; ok && d.TxPower != nil {
		m[c] = *d.TxPower
	}
	if c, ok := columns["acceleration_x"]; ok && d.AccelerationX != nil {
		m[c] = *d.AccelerationX
	}
	if c, ok := columns["acceleration_y"]; ok && d.AccelerationY != nil {
		m[c] = *d.AccelerationY
	}
	if c, ok := columns["acceleration_z"]; ok && d.AccelerationZ != nil {
		m[c] = *d.AccelerationZ
	}
	if c, ok := columns["movement_counter"]; ok && d.MovementCounter != nil {
		m[c] = *d.MovementCounter
	}
	if c, ok := columns["measurement_number"]; ok && d.MeasurementNumber != nil {
		m[c] = *d.MeasurementNumber
	}
	if c, ok := columns["dew_point"]; ok && d.DewPoint != nil {
		m[c] = *d.DewPoint
	}
	return m
}
