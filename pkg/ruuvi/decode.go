// Package ruuvi decodes Ruuvi sensor BLE advertisements.
//
// A payload is the manufacturer specific data following the Ruuvi company
// identifier; its first byte selects the data format. Decode works on raw
// payloads, DecodeAdvertisement on complete advertisements and DecodeHex
// accepts hex text of either.
package ruuvi

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Decode dispatches a bare payload to the decoder selected by its format
// byte.
func Decode(b []byte) (Data, error) {
	if len(b) == 0 {
		return nil, &LengthError{Actual: 0}
	}
	f, err := ParseFormat(b[0])
	if err != nil {
		return nil, err
	}
	switch f {
	case FormatV5:
		return wrap[V5](DecodeV5(b))
	case FormatV6:
		return wrap[V6](DecodeV6(b))
	default:
		return wrap[E1](DecodeE1(b))
	}
}

func wrap[T Data](d T, err error) (Data, error) {
	if err != nil {
		return nil, err
	}
	return d, nil
}

// DecodeAdvertisement extracts the Ruuvi payload from a complete BLE
// advertisement and decodes it.
func DecodeAdvertisement(adv []byte) (Data, error) {
	payload, err := ExtractPayload(adv)
	if err != nil {
		return nil, err
	}
	return Decode(payload)
}

// DecodeHex decodes hex text holding a complete advertisement, a
// manufacturer data block starting with the company identifier, or a bare
// payload. Surrounding whitespace, a 0x prefix and spaces between bytes are
// ignored.
func DecodeHex(s string) (Data, error) {
	b, err := ParseHex(s)
	if err != nil {
		return nil, err
	}
	payload, extractErr := ExtractPayload(b)
	if extractErr == nil {
		return Decode(payload)
	}
	if len(b) >= 2 && binary.LittleEndian.Uint16(b) == CompanyID {
		return Decode(b[2:])
	}
	d, err := Decode(b)
	if err != nil && errors.Is(extractErr, ErrInvalidLength) && startsWithADStructure(b) {
		// a truncated advertisement read as a bare payload only hides
		// where it broke
		return nil, extractErr
	}
	return d, err
}

// startsWithADStructure reports whether b opens with a complete AD
// structure that is followed by more data.
func startsWithADStructure(b []byte) bool {
	return len(b) > 0 && b[0] > 0 && int(b[0])+1 < len(b)
}

// ParseHex converts loosely formatted hex text to bytes.
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	s = strings.Join(strings.Fields(s), "")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return b, nil
}

// checkPayload validates the exact length and then the format byte of b.
func checkPayload(b []byte, f Format) error {
	if len(b) != f.PayloadLength() {
		return &LengthError{Expected: f.PayloadLength(), Actual: len(b)}
	}
	if b[0] != byte(f) {
		return &FormatError{Format: b[0]}
	}
	return nil
}
