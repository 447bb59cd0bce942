package ruuvi

import (
	"fmt"
)

// Format is the data format discriminator carried in byte 0 of a payload.
type Format byte

const (
	FormatV5 Format = 0x05
	FormatV6 Format = 0x06
	FormatE1 Format = 0xE1
)

// ParseFormat maps a discriminator byte to a known format.
func ParseFormat(b byte) (Format, error) {
	switch f := Format(b); f {
	case FormatV5, FormatV6, FormatE1:
		return f, nil
	default:
		return 0, &FormatError{Format: b}
	}
}

// PayloadLength returns the exact payload size including the format byte
// and MAC address, or 0 for an unknown format.
func (f Format) PayloadLength() int {
	switch f {
	case FormatV5:
		return v5Length
	case FormatV6:
		return v6Length
	case FormatE1:
		return e1Length
	default:
		return 0
	}
}

func (f Format) String() string {
	switch f {
	case FormatV5:
		return "V5"
	case FormatV6:
		return "V6"
	case FormatE1:
		return "E1"
	default:
		return fmt.Sprintf("0x%02X", byte(f))
	}
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Data is one decoded payload. It is implemented only by V5, V6 and E1;
// use a type switch to reach the format specific fields.
type Data interface {
	Format() Format
	MAC() string
	isData()
}
