// Package metric implements the evidence extractors. Each extractor reduces
// one dimension of an artifact (license, documentation, history, data files)
// to a score in [0.0, 1.0], or to a per-device score map for size.
package metric

import (
	"errors"
	"sort"

	"github.com/mchmarny/trustscore/pkg/score"
)

// ErrUnknownMetric is returned by Lookup for names outside the closed set.
var ErrUnknownMetric = errors.New("unknown metric")

// Value is an extractor result: a scalar, or a per-device map when Devices
// is non-nil.
type Value struct {
	Scalar  float64            `json:"scalar,omitempty" yaml:"scalar,omitempty"`
	Devices map[string]float64 `json:"devices,omitempty" yaml:"devices,omitempty"`
}

// Scalar returns a clamped scalar value.
func Scalar(v float64) Value {
	return Value{Scalar: score.Clamp01(v)}
}

// DeviceMap returns a per-device value with every entry clamped.
func DeviceMap(m map[string]float64) Value {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = score.Clamp01(v)
	}
	return Value{Devices: out}
}

// IsMap reports whether v is a per-device map.
func (v Value) IsMap() bool {
	return v.Devices != nil
}

// Extractor evaluates one metric for a target.
type Extractor interface {
	Name() string
	Evaluate(t *Target) (Value, error)
}

// All returns every extractor in output order.
func All() []Extractor {
	return []Extractor{
		RampUp{},
		BusFactor{},
		PerformanceClaims{},
		License{},
		DatasetAndCode{},
		DatasetQuality{},
		CodeQuality{},
		Availability{},
		Size{},
	}
}

// Names returns the names of All, sorted.
func Names() []string {
	list := make([]string, 0)
	for _, e := range All() {
		list = append(list, e.Name())
	}
	sort.Strings(list)
	return list
}

// Lookup returns the extractor with the given name.
func Lookup(name string) (Extractor, error) {
	for _, e := range All() {
		if e.Name() == name {
			return e, nil
		}
	}
	return nil, ErrUnknownMetric
}

// fallback is the stable stand-in score for a target without evidence.
func fallback(t *Target, salt string) Value {
	return Scalar(score.StableUnit(t.Ref.Raw, salt))
}
