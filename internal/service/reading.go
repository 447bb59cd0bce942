package service

import (
	"time"

	"github.com/niktheblak/ruuvitag-common/pkg/sensor"

	"github.com/niktheblak/ruuvitag-decoder/pkg/ruuvi"
)

// Reading is a decoded payload together with where and when it was seen.
type Reading struct {
	Name       string       `json:"name,omitempty"`
	MAC        string       `json:"mac"`
	Format     ruuvi.Format `json:"format"`
	Timestamp  time.Time    `json:"ts"`
	Gateway    string       `json:"gateway,omitempty"`
	RSSI       *int         `json:"rssi,omitempty"`
	AirQuality *float64     `json:"air_quality,omitempty"`
	Data       ruuvi.Data   `json:"data"`
}

// Fields converts the reading to the shared RuuviTag field model.
func (r Reading) Fields() sensor.Fields {
	f := ruuvi.ToFields(r.Data, r.Timestamp)
	if r.MAC != "" && r.MAC != ruuvi.InvalidMAC {
		mac := r.MAC
		f.Addr = &mac
	}
	if r.Name != "" {
		name := r.Name
		f.Name = &name
	}
	return f
}

// Key identifies the sensor when publishing.
func (r Reading) Key() string {
	if r.MAC != "" && r.MAC != ruuvi.InvalidMAC {
		return r.MAC
	}
	if r.Name != "" {
		return r.Name
	}
	return ruuvi.InvalidMAC
}
