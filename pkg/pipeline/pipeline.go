// Package pipeline drives the extractors over each artifact reference and
// assembles the output records. Every valid input line yields exactly one
// record: failures degrade to the placeholder record instead of dropping
// the line.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mchmarny/trustscore/pkg/artifact"
	"github.com/mchmarny/trustscore/pkg/metric"
	"github.com/mchmarny/trustscore/pkg/record"
	"github.com/mchmarny/trustscore/pkg/remote"
	"github.com/mchmarny/trustscore/pkg/score"
	"golang.org/x/sync/errgroup"
)

// ErrPanic marks an extractor that panicked.
var ErrPanic = errors.New("extractor panic")

// MetaSource looks up remote repository metadata.
type MetaSource interface {
	RepoMeta(ctx context.Context, owner, repo string) (*remote.RepoMeta, error)
}

// Options configure a Scorer. Zero values select the defaults.
type Options struct {
	Weights    score.Weights
	Calibrator *score.Calibrator
	Limits     metric.Limits
	// Parallel bounds concurrent extractors per artifact; <= 1 runs them
	// sequentially.
	Parallel int
	Remote   MetaSource
	Metrics  *Metrics
	// Extractors replace the default extractor of the same name. Every
	// metric slot is always evaluated.
	Extractors []metric.Extractor
}

// Outcome is the result of scoring one artifact. Degraded records carry the
// error that caused the placeholder.
type Outcome struct {
	Record   record.Record
	Degraded bool
	Err      error
}

// Scorer scores artifact references.
type Scorer struct {
	combiner   *score.Combiner
	calibrator *score.Calibrator
	limits     metric.Limits
	parallel   int
	remote     MetaSource
	metrics    *Metrics
	extractors []metric.Extractor
}

// NewScorer returns a Scorer for opts.
func NewScorer(opts Options) *Scorer {
	w := opts.Weights
	if w.Sum() == 0 {
		w = score.DefaultWeights()
	}
	limits := opts.Limits
	if limits == (metric.Limits{}) {
		limits = metric.DefaultLimits()
	}
	return &Scorer{
		combiner:   score.NewCombiner(w),
		calibrator: opts.Calibrator,
		limits:     limits,
		parallel:   opts.Parallel,
		remote:     opts.Remote,
		metrics:    opts.Metrics,
		extractors: withOverrides(metric.All(), opts.Extractors),
	}
}

// withOverrides swaps each default extractor for the override sharing its
// name. Overrides that name no metric are appended and fail at assembly.
func withOverrides(defaults, overrides []metric.Extractor) []metric.Extractor {
	list := append([]metric.Extractor(nil), defaults...)
	for _, o := range overrides {
		replaced := false
		for i, d := range list {
			if d.Name() == o.Name() {
				list[i] = o
				replaced = true
				break
			}
		}
		if !replaced {
			list = append(list, o)
		}
	}
	return list
}

// Run scores each line in order and passes every outcome to emit. It stops
// early only when ctx is done or emit fails.
func (s *Scorer) Run(ctx context.Context, lines []string, emit func(Outcome) error) error {
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("scoring interrupted: %w", err)
		}
		if err := emit(s.Score(ctx, artifact.Parse(line))); err != nil {
			return err
		}
	}
	return nil
}

// Score evaluates every extractor for ref. It never fails: any error or
// panic yields the placeholder record.
func (s *Scorer) Score(ctx context.Context, ref artifact.Ref) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = s.degrade(ref, fmt.Errorf("%w: %v", ErrPanic, r))
		}
		s.metrics.observeRecord(out.Degraded)
	}()

	rec, err := s.evaluate(ctx, s.Target(ctx, ref))
	if err != nil {
		return s.degrade(ref, err)
	}
	return Outcome{Record: rec}
}

// Target resolves ref, enriching it with remote metadata when enabled.
func (s *Scorer) Target(ctx context.Context, ref artifact.Ref) *metric.Target {
	var meta *remote.RepoMeta
	if s.remote != nil && ref.IsGitHub() {
		m, err := s.remote.RepoMeta(ctx, ref.Owner, ref.Repo)
		if err != nil {
			slog.Debug("no remote metadata", "url", ref.Raw, "error", err)
		} else {
			meta = m
		}
	}
	return metric.NewTarget(ref, s.limits, meta)
}

func (s *Scorer) degrade(ref artifact.Ref, err error) Outcome {
	slog.Warn("artifact degraded to placeholder", "url", ref.Raw, "error", err)
	return Outcome{
		Record:   record.Placeholder(ref, s.combiner),
		Degraded: true,
		Err:      err,
	}
}

type result struct {
	value   metric.Value
	latency int
}

func (s *Scorer) evaluate(ctx context.Context, t *metric.Target) (record.Record, error) {
	results, err := s.collect(ctx, t)
	if err != nil {
		return record.Record{}, err
	}
	return s.assemble(t, results)
}

// collect runs every extractor, in parallel when configured. Results are
// indexed like s.extractors.
func (s *Scorer) collect(ctx context.Context, t *metric.Target) ([]result, error) {
	results := make([]result, len(s.extractors))

	if s.parallel <= 1 {
		for i, e := range s.extractors {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r, err := s.measure(e, t)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.parallel)
		for i, e := range s.extractors {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				r, err := s.measure(e, t)
				if err != nil {
					return err
				}
				results[i] = r
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// assemble calibrates the results into a finalized record.
func (s *Scorer) assemble(t *metric.Target, results []result) (record.Record, error) {
	rec := record.New(t.Ref)
	for i, e := range s.extractors {
		v := s.calibrate(t.Ref.Name, e.Name(), results[i].value)
		if err := rec.Set(e.Name(), v, results[i].latency); err != nil {
			return record.Record{}, err
		}
	}
	rec.Finalize(s.combiner)
	return rec, nil
}

// measure runs one extractor under the latency clock, converting a panic
// into an error so it cannot escape an errgroup goroutine.
func (s *Scorer) measure(e metric.Extractor, t *metric.Target) (r result, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %s: %v", ErrPanic, e.Name(), p)
		}
	}()

	v, ms, err := score.Measure(func() (metric.Value, error) {
		return e.Evaluate(t)
	})
	if err != nil {
		return result{}, fmt.Errorf("evaluating %s: %w", e.Name(), err)
	}
	s.metrics.observeLatency(e.Name(), ms)
	return result{value: v, latency: ms}, nil
}

func (s *Scorer) calibrate(name, field string, v metric.Value) metric.Value {
	if v.IsMap() {
		return metric.DeviceMap(s.calibrator.ApplyMap(name, field, v.Devices))
	}
	return metric.Scalar(s.calibrator.Apply(name, field, v.Scalar))
}
