package ruuvi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAirQualityIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pm25, co2 float64
		expected  float64
	}{
		{0, 420, 100},
		{60, 2300, 0},
		{30, 1360, 29.289321881345245},
		{-10, 500, 95.74468085106383},
		{10, 10000, 0},
		{60, 420, 0},
		{0, 2300, 0},
		{0, 0, 100},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.expected, airQualityIndex(tt.pm25, tt.co2), 1e-9, "pm2.5=%v co2=%v", tt.pm25, tt.co2)
	}
}

func TestAirQuality(t *testing.T) {
	t.Parallel()

	t.Run("v6", func(t *testing.T) {
		t.Parallel()

		d, err := DecodeV6(mustHex(t, testV6Payload))
		require.NoError(t, err)
		aqi, ok := AirQuality(d)
		require.True(t, ok)
		// co2 201 is below outdoor level, so only PM2.5 contributes
		assert.InDelta(t, 100-11.2*100/60, aqi, 1e-9)
	})
	t.Run("e1", func(t *testing.T) {
		t.Parallel()

		d, err := DecodeE1(mustHex(t, testE1Payload))
		require.NoError(t, err)
		_, ok := AirQuality(d)
		assert.True(t, ok)
	})
	t.Run("v5 has no air quality", func(t *testing.T) {
		t.Parallel()

		d, err := DecodeV5(mustHex(t, testV5Payload))
		require.NoError(t, err)
		_, ok := AirQuality(d)
		assert.False(t, ok)
	})
	t.Run("unavailable channel", func(t *testing.T) {
		t.Parallel()

		d, err := DecodeV6(mustHex(t, "068000FFFFFFFFFFFFFFFFFFFFFFFFFFC0FFFFFF"))
		require.NoError(t, err)
		_, ok := AirQuality(d)
		assert.False(t, ok)
	})
}
