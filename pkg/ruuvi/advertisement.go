package ruuvi

import (
	"encoding/binary"
)

// CompanyID is the Bluetooth SIG company identifier assigned to Ruuvi
// Innovations. It is transmitted little-endian as 0x99 0x04.
const CompanyID uint16 = 0x0499

const adTypeManufacturerData = 0xFF

// ExtractPayload walks the AD structures of a BLE advertisement and returns
// the data following the Ruuvi company identifier in the first matching
// manufacturer specific data structure. The returned slice aliases adv.
func ExtractPayload(adv []byte) ([]byte, error) {
	for i := 0; i < len(adv); {
		n := int(adv[i])
		if n == 0 {
			// zero length marks the end of the significant part
			break
		}
		end := i + 1 + n
		if end > len(adv) {
			return nil, &LengthError{Expected: end, Actual: len(adv)}
		}
		if adv[i+1] == adTypeManufacturerData {
			data := adv[i+2 : end]
			if len(data) >= 2 && binary.LittleEndian.Uint16(data) == CompanyID {
				return data[2:], nil
			}
		}
		i = end
	}
	return nil, ErrNotFound
}
