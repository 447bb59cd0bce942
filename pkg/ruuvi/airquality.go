package ruuvi

import (
	"math"
)

const (
	aqiMax  = 100.0
	pm25Min = 0.0
	pm25Max = 60.0
	co2Min  = 420.0
	co2Max  = 2300.0
)

// AirQuality returns an air quality index between 0 (worst) and 100 (best)
// derived from PM2.5 and CO2. It reports false for formats without those
// channels or when either reading is unavailable.
func AirQuality(d Data) (float64, bool) {
	var pm25, co2 *float64
	switch d := d.(type) {
	case V6:
		pm25, co2 = d.PM25, d.CO2
	case E1:
		pm25, co2 = d.PM25, d.CO2
	}
	if pm25 == nil || co2 == nil {
		return 0, false
	}
	return airQualityIndex(*pm25, *co2), true
}

// airQualityIndex measures the distance from the ideal corner of the
// normalised PM2.5/CO2 plane.
func airQualityIndex(pm25, co2 float64) float64 {
	pm25 = clamp(pm25, pm25Min, pm25Max)
	co2 = clamp(co2, co2Min, co2Max)
	dx := (pm25 - pm25Min) * aqiMax / (pm25Max - pm25Min)
	dy := (co2 - co2Min) * aqiMax / (co2Max - co2Min)
	return clamp(aqiMax-math.Hypot(dx, dy), 0, aqiMax)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
