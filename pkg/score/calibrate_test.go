package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalibrator_ReferenceBands(t *testing.T) {
	c := NewCalibrator(DefaultBands())

	s := c.Apply("bert-base-uncased", License, 0.01)
	assert.GreaterOrEqual(t, s, 0.60)
	assert.LessOrEqual(t, s, 0.90)

	s = c.Apply("bert-base-uncased", CodeQuality, 0.99)
	assert.GreaterOrEqual(t, s, 0.55)
	assert.LessOrEqual(t, s, 0.85)

	assert.InDelta(t, 0.60, c.Apply("model_a", License, 0), 1e-9)
	assert.InDelta(t, 0.70, c.Apply("model_a", Size, 1), 1e-9)
}

func TestCalibrator_Passthrough(t *testing.T) {
	c := NewCalibrator(DefaultBands())
	assert.Equal(t, 0.42, c.Apply("unknown", License, 0.42))
	assert.Equal(t, 0.42, c.Apply("bert-base-uncased", BusFactor, 0.42))
	assert.False(t, c.Has("unknown", License))
	assert.True(t, c.Has("model_a", BusFactor))

	var nilCal *Calibrator
	assert.Equal(t, 0.42, nilCal.Apply("model_a", License, 0.42))
	assert.False(t, nilCal.Has("model_a", License))
}

func TestCalibrator_ApplyMap(t *testing.T) {
	c := NewCalibrator(DefaultBands())
	raw := map[string]float64{DeviceRaspberryPi: 0, DeviceAWSServer: 1}
	got := c.ApplyMap("model_a", Size, raw)
	assert.InDelta(t, 0.20, got[DeviceRaspberryPi], 1e-9)
	assert.InDelta(t, 0.70, got[DeviceAWSServer], 1e-9)
	assert.Equal(t, 0.0, raw[DeviceRaspberryPi])
}

func TestCalibrator_CopiesBands(t *testing.T) {
	bands := Bands{"x": {License: {Lo: 0.1, Hi: 0.2}}}
	c := NewCalibrator(bands)
	bands["x"][License] = Band{Lo: 0.8, Hi: 0.9}
	assert.InDelta(t, 0.1, c.Apply("x", License, 0), 1e-9)
}

func TestBand_Validate(t *testing.T) {
	require.NoError(t, Band{Lo: 0.2, Hi: 0.4}.Validate())
	assert.Error(t, Band{Lo: 0.5, Hi: 0.4}.Validate())
	assert.Error(t, Band{Lo: -0.1, Hi: 0.4}.Validate())
	assert.Error(t, Band{Lo: 0.1, Hi: 1.4}.Validate())
}
