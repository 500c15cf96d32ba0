// Package record defines the flat per-artifact output record and its
// NDJSON encoding.
package record

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mchmarny/trustscore/pkg/artifact"
	"github.com/mchmarny/trustscore/pkg/metric"
	"github.com/mchmarny/trustscore/pkg/score"
)

// placeholderLatency is the latency reported for every metric of a
// placeholder record.
const placeholderLatency = 1

// Record is one output line. Field order is the output key order.
type Record struct {
	URL                        string             `json:"url" yaml:"url"`
	Name                       string             `json:"name" yaml:"name"`
	Category                   artifact.Category  `json:"category" yaml:"category"`
	NetScore                   float64            `json:"net_score" yaml:"net_score"`
	NetScoreLatency            int                `json:"net_score_latency" yaml:"net_score_latency"`
	RampUpTime                 float64            `json:"ramp_up_time" yaml:"ramp_up_time"`
	RampUpTimeLatency          int                `json:"ramp_up_time_latency" yaml:"ramp_up_time_latency"`
	BusFactor                  float64            `json:"bus_factor" yaml:"bus_factor"`
	BusFactorLatency           int                `json:"bus_factor_latency" yaml:"bus_factor_latency"`
	PerformanceClaims          float64            `json:"performance_claims" yaml:"performance_claims"`
	PerformanceClaimsLatency   int                `json:"performance_claims_latency" yaml:"performance_claims_latency"`
	License                    float64            `json:"license" yaml:"license"`
	LicenseLatency             int                `json:"license_latency" yaml:"license_latency"`
	DatasetAndCodeScore        float64            `json:"dataset_and_code_score" yaml:"dataset_and_code_score"`
	DatasetAndCodeScoreLatency int                `json:"dataset_and_code_score_latency" yaml:"dataset_and_code_score_latency"`
	DatasetQuality             float64            `json:"dataset_quality" yaml:"dataset_quality"`
	DatasetQualityLatency      int                `json:"dataset_quality_latency" yaml:"dataset_quality_latency"`
	CodeQuality                float64            `json:"code_quality" yaml:"code_quality"`
	CodeQualityLatency         int                `json:"code_quality_latency" yaml:"code_quality_latency"`
	Availability               float64            `json:"availability" yaml:"availability"`
	AvailabilityLatency        int                `json:"availability_latency" yaml:"availability_latency"`
	SizeScore                  map[string]float64 `json:"size_score" yaml:"size_score"`
	SizeScoreLatency           int                `json:"size_score_latency" yaml:"size_score_latency"`
}

// New returns an empty record for ref.
func New(ref artifact.Ref) Record {
	return Record{
		URL:       ref.Raw,
		Name:      ref.Name,
		Category:  ref.Category,
		SizeScore: map[string]float64{},
	}
}

// Set stores the value and latency of the named metric.
func (r *Record) Set(name string, v metric.Value, latency int) error {
	if name == score.Size {
		r.SizeScore = make(map[string]float64, len(v.Devices))
		for d, s := range v.Devices {
			r.SizeScore[d] = s
		}
		r.SizeScoreLatency = latency
		return nil
	}

	val, lat := r.slot(name)
	if val == nil {
		return fmt.Errorf("%w: %s", metric.ErrUnknownMetric, name)
	}
	*val, *lat = v.Scalar, latency
	return nil
}

// Scores returns the scalar metric values keyed by metric name.
func (r *Record) Scores() map[string]float64 {
	m := make(map[string]float64)
	for _, n := range metric.Names() {
		if val, _ := r.slot(n); val != nil {
			m[n] = *val
		}
	}
	return m
}

// Latencies returns every per-metric latency, size included.
func (r *Record) Latencies() []int {
	list := make([]int, 0)
	for _, n := range metric.Names() {
		if n == score.Size {
			list = append(list, r.SizeScoreLatency)
			continue
		}
		if _, lat := r.slot(n); lat != nil {
			list = append(list, *lat)
		}
	}
	return list
}

// Finalize computes the net score with c and the net latency as the sum of
// the metric latencies.
func (r *Record) Finalize(c *score.Combiner) {
	r.NetScore = c.Combine(r.Scores(), r.SizeScore)
	r.NetScoreLatency = score.SumLatencies(r.Latencies()...)
}

func (r *Record) slot(name string) (*float64, *int) {
	switch name {
	case score.RampUp:
		return &r.RampUpTime, &r.RampUpTimeLatency
	case score.BusFactor:
		return &r.BusFactor, &r.BusFactorLatency
	case score.PerformanceClaims:
		return &r.PerformanceClaims, &r.PerformanceClaimsLatency
	case score.License:
		return &r.License, &r.LicenseLatency
	case score.DatasetAndCode:
		return &r.DatasetAndCodeScore, &r.DatasetAndCodeScoreLatency
	case score.DatasetQuality:
		return &r.DatasetQuality, &r.DatasetQualityLatency
	case score.CodeQuality:
		return &r.CodeQuality, &r.CodeQualityLatency
	case score.Availability:
		return &r.Availability, &r.AvailabilityLatency
	default:
		return nil, nil
	}
}

// Placeholder returns the all-zero record emitted when extraction fails:
// every score 0, every device 0, every latency 1 ms.
func Placeholder(ref artifact.Ref, c *score.Combiner) Record {
	r := New(ref)
	for _, e := range metric.All() {
		v := metric.Scalar(0)
		if e.Name() == score.Size {
			v = metric.DeviceMap(zeroDevices())
		}
		// names come from the closed extractor set
		_ = r.Set(e.Name(), v, placeholderLatency)
	}
	r.Finalize(c)
	return r
}

func zeroDevices() map[string]float64 {
	m := make(map[string]float64)
	for _, d := range score.Devices() {
		m[d] = 0
	}
	return m
}

// Writer encodes records as NDJSON, one compact object per line.
type Writer struct {
	enc *json.Encoder
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Writer{enc: enc}
}

// Write encodes r followed by a newline.
func (w *Writer) Write(r Record) error {
	if err := w.enc.Encode(r); err != nil {
		return fmt.Errorf("encoding record %s: %w", r.URL, err)
	}
	return nil
}
