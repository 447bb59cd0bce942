package ruuvi

// E1 is a reading in the extended data format E1. It carries the V6 air
// quality channels plus PM1.0, PM4.0 and PM10.0, a 24-bit luminosity in lux
// and a 24-bit measurement sequence.
type E1 struct {
	Temperature         *float64 `json:"temperature"`
	Humidity            *float64 `json:"humidity"`
	Pressure            *float64 `json:"pressure"`
	PM1                 *float64 `json:"pm1_0"`
	PM25                *float64 `json:"pm2_5"`
	PM4                 *float64 `json:"pm4_0"`
	PM10                *float64 `json:"pm10_0"`
	CO2                 *float64 `json:"co2"`
	VOCIndex            *float64 `json:"voc_index"`
	NOxIndex            *float64 `json:"nox_index"`
	Luminosity          *float64 `json:"luminosity"`
	MeasurementSequence *uint32  `json:"measurement_sequence"`
	Flags               uint8    `json:"flags"`
	MACAddress          string   `json:"mac_address"`
}

func (E1) Format() Format {
	return FormatE1
}

func (d E1) MAC() string {
	return d.MACAddress
}

func (E1) isData() {}

// DecodeE1 decodes a complete 40 byte data format E1 payload.
func DecodeE1(b []byte) (E1, error) {
	if err := checkPayload(b, FormatE1); err != nil {
		return E1{}, err
	}
	r := &reader{buf: b}
	d := E1{
		Temperature:         r.value(temperatureField),
		Humidity:            r.value(e1Humidity),
		Pressure:            r.value(pressureField),
		PM1:                 r.value(e1PM1),
		PM25:                r.value(e1PM25),
		PM4:                 r.value(e1PM4),
		PM10:                r.value(e1PM10),
		CO2:                 r.value(e1CO2),
		VOCIndex:            r.value(e1VOC),
		NOxIndex:            r.value(e1NOx),
		Luminosity:          r.value(e1Luminosity),
		MeasurementSequence: r.optionalCounter(e1Sequence),
		Flags:               uint8(r.counter(e1Flags)),
		MACAddress:          r.mac(e1MACOffset, e1MACLength),
	}
	if r.err != nil {
		return E1{}, r.err
	}
	return d, nil
}
