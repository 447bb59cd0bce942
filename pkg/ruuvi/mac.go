package ruuvi

import (
	"strings"
)

// InvalidMAC is reported when the sensor broadcasts an all-ones address.
const InvalidMAC = "invalid"

const hexDigits = "0123456789abcdef"

// FormatMAC renders b as colon separated lowercase hex pairs, most
// significant byte first.
func FormatMAC(b []byte) string {
	if len(b) == 0 {
		return InvalidMAC
	}
	allOnes := true
	for _, c := range b {
		if c != 0xFF {
			allOnes = false
			break
		}
	}
	if allOnes {
		return InvalidMAC
	}
	sb := new(strings.Builder)
	sb.Grow(len(b)*3 - 1)
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(':')
		}
		sb.WriteByte(hexDigits[c>>4])
		sb.WriteByte(hexDigits[c&0x0F])
	}
	return sb.String()
}
