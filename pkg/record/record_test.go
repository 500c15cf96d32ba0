package record

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mchmarny/trustscore/pkg/artifact"
	"github.com/mchmarny/trustscore/pkg/metric"
	"github.com/mchmarny/trustscore/pkg/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholder(t *testing.T) {
	ref := artifact.Parse("https://huggingface.co/org/model")
	r := Placeholder(ref, score.NewCombiner(score.DefaultWeights()))

	assert.Equal(t, ref.Raw, r.URL)
	assert.Equal(t, "model", r.Name)
	assert.Equal(t, artifact.CategoryModel, r.Category)
	assert.Equal(t, 0.0, r.NetScore)

	for n, v := range r.Scores() {
		assert.Equal(t, 0.0, v, n)
	}
	require.Len(t, r.SizeScore, len(score.Devices()))
	for _, d := range score.Devices() {
		assert.Equal(t, 0.0, r.SizeScore[d], d)
	}

	lat := r.Latencies()
	assert.Len(t, lat, len(metric.All()))
	for _, l := range lat {
		assert.Equal(t, 1, l)
	}
	assert.Equal(t, len(lat), r.NetScoreLatency)
}

func TestSet(t *testing.T) {
	r := New(artifact.Parse("https://github.com/acme/widget"))
	require.NoError(t, r.Set(score.License, metric.Scalar(0.8), 3))
	require.NoError(t, r.Set(score.Size, metric.DeviceMap(map[string]float64{score.DeviceDesktopPC: 0.5}), 2))

	assert.Equal(t, 0.8, r.License)
	assert.Equal(t, 3, r.LicenseLatency)
	assert.Equal(t, 0.5, r.SizeScore[score.DeviceDesktopPC])
	assert.Equal(t, 2, r.SizeScoreLatency)

	err := r.Set("stars", metric.Scalar(1), 1)
	assert.ErrorIs(t, err, metric.ErrUnknownMetric)
}

func TestFinalize(t *testing.T) {
	r := New(artifact.Parse("https://github.com/acme/widget"))
	for _, e := range metric.All() {
		v := metric.Scalar(1)
		if e.Name() == score.Size {
			v = metric.DeviceMap(map[string]float64{score.DeviceRaspberryPi: 1})
		}
		require.NoError(t, r.Set(e.Name(), v, 2))
	}
	r.Finalize(score.NewCombiner(score.DefaultWeights()))

	assert.InDelta(t, 1.0, r.NetScore, 1e-9)
	assert.Equal(t, 2*len(metric.All()), r.NetScoreLatency)
}

func TestWriter_KeyOrder(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	r := Placeholder(artifact.Parse("https://example.com/a?b=1&c=<2>"), score.NewCombiner(score.DefaultWeights()))
	require.NoError(t, w.Write(r))
	require.NoError(t, w.Write(r))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, lines[0], lines[1])
	assert.NotContains(t, lines[0], " ")
	assert.Contains(t, lines[0], "&c=<2>")

	keys := []string{
		`"url"`, `"name"`, `"category"`, `"net_score"`, `"net_score_latency"`,
		`"ramp_up_time"`, `"bus_factor"`, `"performance_claims"`, `"license"`,
		`"dataset_and_code_score"`, `"dataset_quality"`, `"code_quality"`,
		`"availability"`, `"size_score"`, `"size_score_latency"`,
	}
	last := -1
	for _, k := range keys {
		i := strings.Index(lines[0], k+":")
		require.Greater(t, i, last, k)
		last = i
	}
	assert.True(t, strings.Index(lines[0], `"aws_server"`) < strings.Index(lines[0], `"raspberry_pi"`))

	var back map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &back))
	assert.Len(t, back, 23)
}
