package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mchmarny/trustscore/pkg/metric"
	"github.com/mchmarny/trustscore/pkg/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Missing(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	c, err = Load("")
	require.NoError(t, err)
	assert.True(t, c.Calibration.Enabled)
	assert.False(t, c.Remote.Enabled)
}

func TestLoad_File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
weights:
  license: 2
  ramp_up_time: 1
calibration:
  enabled: true
  bands:
    my-model:
      license: {lo: 0.1, hi: 0.2}
    model_a:
      license: {lo: 0.5, hi: 0.6}
limits:
  maxRows: 10
remote:
  enabled: true
`), 0o600))

	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{score.License: 2, score.RampUp: 1}, c.Weights)
	assert.True(t, c.Remote.Enabled)
	assert.Equal(t, 10, c.Limits.MaxRows)
	assert.Equal(t, metric.DefaultLimits().MaxFiles, c.Limits.MaxFiles)

	cal := c.Calibrator()
	require.NotNil(t, cal)
	assert.True(t, cal.Has("my-model", score.License))
	assert.True(t, cal.Has("bert-base-uncased", score.CodeQuality))
	assert.InDelta(t, 0.55, cal.Apply("model_a", score.License, 0.5), 1e-9)

	w, err := c.CombinerWeights()
	require.NoError(t, err)
	assert.Equal(t, 3.0, w.Sum())
}

func TestParse_CalibrationDisabled(t *testing.T) {
	c, err := Parse([]byte("calibration:\n  enabled: false\n"))
	require.NoError(t, err)
	assert.Nil(t, c.Calibrator())
	assert.Equal(t, score.DefaultWeights().Map(), c.Weights)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative weight", "weights:\n  license: -1\n"},
		{"zero weights", "weights:\n  license: 0\n"},
		{"unknown weight", "weights:\n  stars: 1\n"},
		{"inverted band", "calibration:\n  bands:\n    m:\n      license: {lo: 0.9, hi: 0.1}\n"},
		{"unknown band field", "calibration:\n  bands:\n    m:\n      stars: {lo: 0.1, hi: 0.2}\n"},
		{"bad limits", "limits:\n  maxFiles: 0\n"},
		{"malformed", "weights: [1, 2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, configFileName, filepath.Base(p))
}
