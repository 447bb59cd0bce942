package ruuvi

// V6 is a reading in data format 6 (RAWv3), broadcast by air quality
// sensors. Pressure is in pascals, PM2.5 in µg/m³, CO2 in ppm and
// luminosity in lux. VOC and NOx are unitless indices.
type V6 struct {
	Temperature         *float64 `json:"temperature"`
	Humidity            *float64 `json:"humidity"`
	Pressure            *float64 `json:"pressure"`
	PM25                *float64 `json:"pm2_5"`
	CO2                 *float64 `json:"co2"`
	VOCIndex            *float64 `json:"voc_index"`
	NOxIndex            *float64 `json:"nox_index"`
	Luminosity          *float64 `json:"luminosity"`
	Reserved            uint8    `json:"reserved"`
	MeasurementSequence uint8    `json:"measurement_sequence"`
	Flags               uint8    `json:"flags"`
	// MACAddress holds only the three least significant address bytes.
	MACAddress string `json:"mac_address"`
}

func (V6) Format() Format {
	return FormatV6
}

func (d V6) MAC() string {
	return d.MACAddress
}

func (V6) isData() {}

// DecodeV6 decodes a complete 20 byte data format 6 payload.
func DecodeV6(b []byte) (V6, error) {
	if err := checkPayload(b, FormatV6); err != nil {
		return V6{}, err
	}
	r := &reader{buf: b}
	d := V6{
		Temperature:         r.value(temperatureField),
		Humidity:            r.value(v6Humidity),
		Pressure:            r.value(pressureField),
		PM25:                r.value(v6PM25),
		CO2:                 r.value(v6CO2),
		VOCIndex:            r.value(v6VOC),
		NOxIndex:            r.value(v6NOx),
		Luminosity:          r.value(v6Luminosity),
		Reserved:            uint8(r.counter(v6Reserved)),
		MeasurementSequence: uint8(r.counter(v6Sequence)),
		Flags:               uint8(r.counter(v6Flags)),
		MACAddress:          r.mac(v6MACOffset, v6MACLength),
	}
	if r.err != nil {
		return V6{}, r.err
	}
	return d, nil
}
