package ruuvi

import (
	"math/bits"
)

// field locates one reading inside a payload and describes how its raw
// integer maps to a physical value. All multi-byte reads are big-endian.
type field struct {
	off    int
	width  int // bytes, 1 to 4
	signed bool

	// shift and mask select a sub-field of a packed word; a zero mask keeps
	// the whole word.
	shift uint
	mask  uint32

	// lsbOff points at a byte carrying one extra least significant bit at
	// position lsbShift. Zero means no extra bit; byte 0 is always the
	// format discriminator so it can never hold one.
	lsbOff   int
	lsbShift uint

	sentinel uint32
	max      uint32 // raw values above max are unavailable, zero disables the check
	scale    float64
	offset   float64
	conv     func(float64) float64
}

func readUint(b []byte, off, width int) (uint32, error) {
	if off < 0 || width < 1 || width > 4 || off+width > len(b) {
		return 0, &LengthError{Expected: off + width, Actual: len(b)}
	}
	var v uint32
	for _, c := range b[off : off+width] {
		v = v<<8 | uint32(c)
	}
	return v, nil
}

func signExtend(v uint32, n int) int32 {
	s := 32 - n
	return int32(v<<s) >> s
}

// sentinelOrScale returns nil when raw is the sentinel, otherwise
// raw*scale+offset. The product is rounded to float64 before the offset is
// added so the result does not depend on fused multiply-add support.
func sentinelOrScale[T int32 | uint32](raw, sentinel T, scale, offset float64) *float64 {
	if raw == sentinel {
		return nil
	}
	v := float64(float64(raw)*scale) + offset
	return &v
}

// bits extracts the field's raw bit pattern and its width in bits.
func (f field) bits(b []byte) (uint32, int, error) {
	v, err := readUint(b, f.off, f.width)
	if err != nil {
		return 0, 0, err
	}
	n := 8 * f.width
	if f.mask != 0 {
		v = v >> f.shift & f.mask
		n = bits.Len32(f.mask)
	}
	if f.lsbOff > 0 {
		lsb, err := readUint(b, f.lsbOff, 1)
		if err != nil {
			return 0, 0, err
		}
		v = v<<1 | lsb>>f.lsbShift&1
		n++
	}
	return v, n, nil
}

func (f field) decode(b []byte) (*float64, error) {
	raw, n, err := f.bits(b)
	if err != nil {
		return nil, err
	}
	if f.max > 0 && raw > f.max {
		return nil, nil
	}
	var v *float64
	if f.signed {
		v = sentinelOrScale(signExtend(raw, n), signExtend(f.sentinel, n), f.scale, f.offset)
	} else {
		v = sentinelOrScale(raw, f.sentinel, f.scale, f.offset)
	}
	if v != nil && f.conv != nil {
		*v = f.conv(*v)
	}
	return v, nil
}

// reader walks a layout table over one payload. The first failure sticks
// and every later read becomes a no-op.
type reader struct {
	buf []byte
	err error
}

func (r *reader) value(f field) *float64 {
	if r.err != nil {
		return nil
	}
	v, err := f.decode(r.buf)
	if err != nil {
		r.err = err
	}
	return v
}

// counter reads a field that has no sentinel.
func (r *reader) counter(f field) uint32 {
	if r.err != nil {
		return 0
	}
	v, _, err := f.bits(r.buf)
	if err != nil {
		r.err = err
	}
	return v
}

func (r *reader) optionalCounter(f field) *uint32 {
	v := r.counter(f)
	if r.err != nil || v == f.sentinel {
		return nil
	}
	return &v
}

func (r *reader) mac(off, n int) string {
	if r.err != nil {
		return ""
	}
	if off < 0 || off+n > len(r.buf) {
		r.err = &LengthError{Expected: off + n, Actual: len(r.buf)}
		return ""
	}
	return FormatMAC(r.buf[off : off+n])
}
