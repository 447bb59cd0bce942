package ruuvi

import (
	"math"
)

// Byte layouts of the supported data formats, as published in the Ruuvi
// data format documentation. Offsets include the leading format byte.

const (
	v5Length = 24
	v6Length = 20
	e1Length = 40

	v5MACOffset = 18
	v6MACOffset = 17
	e1MACOffset = 34

	v5MACLength = 6
	v6MACLength = 3
	e1MACLength = 6
)

// Shared by every format.
var (
	temperatureField = field{off: 1, width: 2, signed: true, sentinel: 0x8000, scale: 0.005}
	pressureField    = field{off: 5, width: 2, sentinel: 0xFFFF, scale: 1, offset: 50000}
)

// Data format 5 (RAWv2).
var (
	v5Humidity       = field{off: 3, width: 2, sentinel: 0xFFFF, scale: 0.0025}
	v5AccelerationX  = field{off: 7, width: 2, signed: true, sentinel: 0x8000, scale: 1}
	v5AccelerationY  = field{off: 9, width: 2, signed: true, sentinel: 0x8000, scale: 1}
	v5AccelerationZ  = field{off: 11, width: 2, signed: true, sentinel: 0x8000, scale: 1}
	v5BatteryVoltage = field{off: 13, width: 2, shift: 5, mask: 0x7FF, sentinel: 0x7FF, scale: 1, offset: 1600}
	v5TxPower        = field{off: 13, width: 2, mask: 0x1F, sentinel: 0x1F, scale: 2, offset: -40}
	v5Movement       = field{off: 15, width: 1}
	v5Sequence       = field{off: 16, width: 2}
)

// Data format 6 (RAWv3).
var (
	v6Humidity   = field{off: 3, width: 2, sentinel: 0xFFFF, max: 40000, scale: 0.0025}
	v6PM25       = field{off: 7, width: 2, sentinel: 0xFFFF, max: 10000, scale: 0.1}
	v6CO2        = field{off: 9, width: 2, sentinel: 0xFFFF, max: 40000, scale: 1}
	v6VOC        = field{off: 11, width: 1, lsbOff: 16, lsbShift: 6, sentinel: 0x1FF, max: 500, scale: 1}
	v6NOx        = field{off: 12, width: 1, lsbOff: 16, lsbShift: 7, sentinel: 0x1FF, max: 500, scale: 1}
	v6Luminosity = field{off: 13, width: 1, sentinel: 0xFF, scale: luminosityDelta, conv: luminosityFromLog}
	v6Reserved   = field{off: 14, width: 1}
	v6Sequence   = field{off: 15, width: 1}
	v6Flags      = field{off: 16, width: 1}
)

// Data format E1 (Extended v1).
var (
	e1Humidity   = field{off: 3, width: 2, sentinel: 0xFFFF, scale: 0.0025}
	e1PM1        = field{off: 7, width: 2, sentinel: 0xFFFF, scale: 0.1}
	e1PM25       = field{off: 9, width: 2, sentinel: 0xFFFF, scale: 0.1}
	e1PM4        = field{off: 11, width: 2, sentinel: 0xFFFF, scale: 0.1}
	e1PM10       = field{off: 13, width: 2, sentinel: 0xFFFF, scale: 0.1}
	e1CO2        = field{off: 15, width: 2, sentinel: 0xFFFF, scale: 1}
	e1VOC        = field{off: 17, width: 1, lsbOff: 28, lsbShift: 6, sentinel: 0x1FF, max: 500, scale: 1}
	e1NOx        = field{off: 18, width: 1, lsbOff: 28, lsbShift: 7, sentinel: 0x1FF, max: 500, scale: 1}
	e1Luminosity = field{off: 19, width: 3, sentinel: 0xFFFFFF, scale: 0.01}
	e1Sequence   = field{off: 25, width: 3, sentinel: 0xFFFFFF}
	e1Flags      = field{off: 28, width: 1}
)

// V6 luminosity is a logarithmic code: lux = exp(code * ln(65536) / 254) - 1.
const luminosityMax = 65535.0

var luminosityDelta = math.Log(luminosityMax+1) / 254

func luminosityFromLog(x float64) float64 {
	return math.Min(math.Exp(x)-1, luminosityMax)
}
