package ruuvi

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidHex        = errors.New("invalid hex string")
	ErrNotFound          = errors.New("ruuvi manufacturer data not found")
	ErrInvalidLength     = errors.New("invalid data length")
	ErrUnsupportedFormat = errors.New("unsupported data format")
)

// LengthError reports a buffer whose length does not match what decoding
// requires. Expected is zero when only a lower bound is known.
type LengthError struct {
	Expected int
	Actual   int
}

func (e *LengthError) Error() string {
	if e.Expected == 0 {
		return fmt.Sprintf("%v: %d bytes", ErrInvalidLength, e.Actual)
	}
	return fmt.Sprintf("%v: expected %d bytes, got %d", ErrInvalidLength, e.Expected, e.Actual)
}

func (e *LengthError) Is(target error) bool {
	return target == ErrInvalidLength
}

// FormatError carries the unrecognized format discriminator.
type FormatError struct {
	Format byte
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v: 0x%02X", ErrUnsupportedFormat, e.Format)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}
