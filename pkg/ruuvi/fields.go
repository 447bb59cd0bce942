package ruuvi

import (
	"math"
	"time"

	"github.com/niktheblak/ruuvitag-common/pkg/sensor"
)

// ToFields converts a decoded payload to the shared RuuviTag field model.
// Pressure is reported in hectopascals and battery voltage in volts there.
// Fields a format does not carry stay nil.
func ToFields(d Data, ts time.Time) sensor.Fields {
	var f sensor.Fields
	f.Timestamp = ts
	if mac := d.MAC(); mac != InvalidMAC {
		f.Addr = &mac
	}
	switch d := d.(type) {
	case V5:
		f.Temperature = clone(d.Temperature)
		f.Humidity = clone(d.Humidity)
		f.Pressure = hectopascals(d.Pressure)
		f.BatteryVoltage = scale(d.BatteryVoltage, 0.001)
		f.TxPower = toInt(d.TxPower)
		f.AccelerationX = toInt(d.AccelerationX)
		f.AccelerationY = toInt(d.AccelerationY)
		f.AccelerationZ = toInt(d.AccelerationZ)
		movement := int(d.MovementCounter)
		f.MovementCounter = &movement
		seq := int(d.MeasurementSequence)
		f.MeasurementNumber = &seq
	case V6:
		f.Temperature = clone(d.Temperature)
		f.Humidity = clone(d.Humidity)
		f.Pressure = hectopascals(d.Pressure)
		seq := int(d.MeasurementSequence)
		f.MeasurementNumber = &seq
	case E1:
		f.Temperature = clone(d.Temperature)
		f.Humidity = clone(d.Humidity)
		f.Pressure = hectopascals(d.Pressure)
		if d.MeasurementSequence != nil {
			seq := int(*d.MeasurementSequence)
			f.MeasurementNumber = &seq
		}
	}
	if f.Temperature != nil && f.Humidity != nil && *f.Humidity > 0 {
		dp := DewPoint(*f.Temperature, *f.Humidity)
		f.DewPoint = &dp
	}
	return f
}

// DewPoint approximates the dew point in degrees Celsius with the Magnus
// formula. Humidity must be positive.
func DewPoint(temperature, humidity float64) float64 {
	const (
		a = 17.625
		b = 243.04
	)
	g := math.Log(humidity/100) + a*temperature/(b+temperature)
	return b * g / (a - g)
}

func clone(v *float64) *float64 {
	return scale(v, 1)
}

func hectopascals(pa *float64) *float64 {
	return scale(pa, 0.01)
}

func scale(v *float64, k float64) *float64 {
	if v == nil {
		return nil
	}
	s := *v * k
	return &s
}

func toInt(v *float64) *int {
	if v == nil {
		return nil
	}
	i := int(math.Round(*v))
	return &i
}
