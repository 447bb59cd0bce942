package ruuvi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64Pointer(v float64) *float64 {
	return &v
}

func TestReadUint(t *testing.T) {
	t.Parallel()

	b := []byte{0x12, 0xFC, 0x53, 0x94}
	v, err := readUint(b, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12FC), v)
	v, err = readUint(b, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFC5394), v)

	t.Run("out of bounds", func(t *testing.T) {
		t.Parallel()

		for _, tc := range []struct{ off, width int }{{3, 2}, {4, 1}, {-1, 1}, {0, 5}, {0, 0}} {
			_, err := readUint(b, tc.off, tc.width)
			assert.ErrorIs(t, err, ErrInvalidLength, "off=%d width=%d", tc.off, tc.width)
		}
	})
}

func TestSignExtend(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int32(-32768), signExtend(0x8000, 16))
	assert.Equal(t, int32(-1), signExtend(0xFFFF, 16))
	assert.Equal(t, int32(32767), signExtend(0x7FFF, 16))
	assert.Equal(t, int32(-1), signExtend(0x1F, 5))
	assert.Equal(t, int32(15), signExtend(0x0F, 5))
}

func TestSentinelOrScale(t *testing.T) {
	t.Parallel()

	assert.Nil(t, sentinelOrScale[uint32](0xFFFF, 0xFFFF, 0.0025, 0))
	assert.Nil(t, sentinelOrScale[int32](-32768, -32768, 0.005, 0))
	assert.Equal(t, float64Pointer(25.0), sentinelOrScale[uint32](10000, 0xFFFF, 0.0025, 0))
	assert.Equal(t, float64Pointer(101285.0), sentinelOrScale[uint32](51285, 0xFFFF, 1, 50000))
	assert.Equal(t, float64Pointer(-2.255), sentinelOrScale[int32](-451, -32768, 0.005, 0))
}

func TestFieldDecode(t *testing.T) {
	t.Parallel()

	t.Run("temperature", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			raw      []byte
			expected *float64
		}{
			{[]byte{0x00, 0x00}, float64Pointer(0)},
			{[]byte{0x01, 0xC3}, float64Pointer(2.255)},
			{[]byte{0xFE, 0x3D}, float64Pointer(-2.255)},
			{[]byte{0x00, 0x01}, float64Pointer(0.005)},
			{[]byte{0xFF, 0xFF}, float64Pointer(-0.005)},
			{[]byte{0x80, 0x00}, nil},
		}
		for _, tc := range tests {
			v, err := temperatureField.decode(append([]byte{0x05}, tc.raw...))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v, "raw %X", tc.raw)
		}
	})
	t.Run("pressure", func(t *testing.T) {
		t.Parallel()

		b := []byte{0x05, 0, 0, 0, 0, 0xC8, 0x55}
		v, err := pressureField.decode(b)
		require.NoError(t, err)
		assert.Equal(t, float64Pointer(101285), v)
		b[5], b[6] = 0xFF, 0xFE
		v, err = pressureField.decode(b)
		require.NoError(t, err)
		assert.Equal(t, float64Pointer(115534), v)
		b[6] = 0xFF
		v, err = pressureField.decode(b)
		require.NoError(t, err)
		assert.Nil(t, v)
	})
	t.Run("truncated", func(t *testing.T) {
		t.Parallel()

		_, err := pressureField.decode([]byte{0x05, 0, 0, 0, 0, 0xC8})
		var lengthErr *LengthError
		require.True(t, errors.As(err, &lengthErr))
		assert.Equal(t, 7, lengthErr.Expected)
		assert.Equal(t, 6, lengthErr.Actual)
	})
}

func TestPowerInfo(t *testing.T) {
	t.Parallel()

	power := func(hi, lo byte) (*float64, *float64) {
		b := make([]byte, v5Length)
		b[13], b[14] = hi, lo
		battery, err := v5BatteryVoltage.decode(b)
		require.NoError(t, err)
		tx, err := v5TxPower.decode(b)
		require.NoError(t, err)
		return battery, tx
	}
	battery, tx := power(0x0A, 0xC3)
	assert.Equal(t, float64Pointer(1686), battery)
	assert.Equal(t, float64Pointer(-34), tx)

	battery, tx = power(0xFF, 0xFF)
	assert.Nil(t, battery)
	assert.Nil(t, tx)

	battery, _ = power(0xFF, 0xE0)
	assert.Nil(t, battery)
	battery, _ = power(0xFF, 0xC0)
	assert.Equal(t, float64Pointer(3646), battery)

	_, tx = power(0x00, 0x1F)
	assert.Nil(t, tx)
	_, tx = power(0x00, 0x1E)
	assert.Equal(t, float64Pointer(20), tx)
}

func TestNineBitIndex(t *testing.T) {
	t.Parallel()

	b := make([]byte, v6Length)
	b[11] = 0x05
	b[16] = 0x40
	v, err := v6VOC.decode(b)
	require.NoError(t, err)
	assert.Equal(t, float64Pointer(11), v)

	b[12] = 0xFA
	b[16] = 0x00
	v, err = v6NOx.decode(b)
	require.NoError(t, err)
	assert.Equal(t, float64Pointer(500), v)

	b[12] = 0xFF
	b[16] = 0x80
	v, err = v6NOx.decode(b)
	require.NoError(t, err)
	assert.Nil(t, v, "sentinel 511")

	b[12] = 0xFA
	v, err = v6NOx.decode(b)
	require.NoError(t, err)
	assert.Nil(t, v, "501 is out of range")
}

func TestReaderStickyError(t *testing.T) {
	t.Parallel()

	r := &reader{buf: []byte{0x05, 0x12}}
	assert.Nil(t, r.value(temperatureField))
	require.ErrorIs(t, r.err, ErrInvalidLength)
	first := r.err
	assert.Zero(t, r.counter(v5Movement))
	assert.Empty(t, r.mac(v5MACOffset, v5MACLength))
	assert.Same(t, first, r.err)
}
