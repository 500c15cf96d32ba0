package score

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// ErrInvalidWeights is returned when a weight table can not be used.
var ErrInvalidWeights = errors.New("invalid weights")

// Default weights (sum to 1.0).
const (
	licenseWeight           = 0.20
	rampUpWeight            = 0.15
	busFactorWeight         = 0.10
	codeQualityWeight       = 0.10
	datasetQualityWeight    = 0.10
	datasetAndCodeWeight    = 0.15
	performanceClaimsWeight = 0.05
	sizeWeight              = 0.15
)

type weightEntry struct {
	name   string
	weight float64
}

// Weights is an immutable metric weight table. Weights are relative and do
// not need to sum to 1.0; the combiner normalizes by their total.
type Weights struct {
	entries []weightEntry
}

// DefaultWeights returns the built-in weight table.
func DefaultWeights() Weights {
	w, _ := NewWeights(map[string]float64{
		License:           licenseWeight,
		RampUp:            rampUpWeight,
		BusFactor:         busFactorWeight,
		CodeQuality:       codeQualityWeight,
		DatasetQuality:    datasetQualityWeight,
		DatasetAndCode:    datasetAndCodeWeight,
		PerformanceClaims: performanceClaimsWeight,
		Size:              sizeWeight,
	})
	return w
}

// NewWeights validates m and returns it as an immutable table.
// Zero weights are dropped.
func NewWeights(m map[string]float64) (Weights, error) {
	var w Weights
	for _, k := range sortedKeys(m) {
		v := m[k]
		if v < 0 {
			return Weights{}, fmt.Errorf("%w: negative weight %s=%f", ErrInvalidWeights, k, v)
		}
		if v == 0 {
			continue
		}
		w.entries = append(w.entries, weightEntry{name: k, weight: v})
	}
	if len(w.entries) == 0 {
		return Weights{}, fmt.Errorf("%w: no positive weight", ErrInvalidWeights)
	}
	return w, nil
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	var s float64
	for _, e := range w.entries {
		s += e.weight
	}
	return s
}

// Get returns the weight of the named metric, 0 when not weighted.
func (w Weights) Get(name string) float64 {
	for _, e := range w.entries {
		if e.name == name {
			return e.weight
		}
	}
	return 0
}

// Map returns a copy of the table.
func (w Weights) Map() map[string]float64 {
	m := make(map[string]float64, len(w.entries))
	for _, e := range w.entries {
		m[e.name] = e.weight
	}
	return m
}

// Combiner aggregates per-metric scores into the net score.
type Combiner struct {
	weights Weights
}

// NewCombiner returns a combiner over w.
func NewCombiner(w Weights) *Combiner {
	return &Combiner{weights: w}
}

// Combine returns the weighted mean of scores in [0.0, 1.0]. The size slot
// takes the mean of sizeScores. A weighted metric missing from a non-empty
// scores map counts as 0 and still adds its weight to the denominator.
// When either map is empty its weights are left out entirely, so size-only
// or size-less evidence still yields a mean over what is present.
func (c *Combiner) Combine(scores, sizeScores map[string]float64) float64 {
	if len(scores) == 0 && len(sizeScores) == 0 {
		return 0
	}

	sizeValue := mean(sizeScores)

	var sum, total float64
	for _, e := range c.weights.entries {
		var v float64
		if e.name == Size {
			if len(sizeScores) == 0 {
				continue
			}
			v = sizeValue
		} else {
			if len(scores) == 0 {
				continue
			}
			v = scores[e.name]
		}
		sum += Clamp01(v) * e.weight
		total += e.weight
	}

	if total == 0 {
		return 0
	}

	net := Clamp01(sum / total)
	slog.Debug("net score", "value", net, "weight_total", total)
	return net
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
