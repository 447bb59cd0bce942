package ruuvi

// V5 is a reading in data format 5 (RAWv2). Nil pointers mean the sensor
// reported the value as unavailable.
type V5 struct {
	// Temperature in degrees Celsius
	Temperature *float64 `json:"temperature"`
	// Humidity in percent relative humidity
	Humidity *float64 `json:"humidity"`
	// Pressure in pascals
	Pressure *float64 `json:"pressure"`
	// Acceleration in milli-g
	AccelerationX *float64 `json:"acceleration_x"`
	AccelerationY *float64 `json:"acceleration_y"`
	AccelerationZ *float64 `json:"acceleration_z"`
	// BatteryVoltage in millivolts
	BatteryVoltage *float64 `json:"battery_voltage"`
	// TxPower in dBm
	TxPower             *float64 `json:"tx_power"`
	MovementCounter     uint8    `json:"movement_counter"`
	MeasurementSequence uint16   `json:"measurement_sequence"`
	MACAddress          string   `json:"mac_address"`
}

func (V5) Format() Format {
	return FormatV5
}

func (d V5) MAC() string {
	return d.MACAddress
}

func (V5) isData() {}

// DecodeV5 decodes a complete 24 byte data format 5 payload, including the
// leading format byte.
func DecodeV5(b []byte) (V5, error) {
	if err := checkPayload(b, FormatV5); err != nil {
		return V5{}, err
	}
	r := &reader{buf: b}
	d := V5{
		Temperature:         r.value(temperatureField),
		Humidity:            r.value(v5Humidity),
		Pressure:            r.value(pressureField),
		AccelerationX:       r.value(v5AccelerationX),
		AccelerationY:       r.value(v5AccelerationY),
		AccelerationZ:       r.value(v5AccelerationZ),
		BatteryVoltage:      r.value(v5BatteryVoltage),
		TxPower:             r.value(v5TxPower),
		MovementCounter:     uint8(r.counter(v5Movement)),
		MeasurementSequence: uint16(r.counter(v5Sequence)),
		MACAddress:          r.mac(v5MACOffset, v5MACLength),
	}
	if r.err != nil {
		return V5{}, r.err
	}
	return d, nil
}
