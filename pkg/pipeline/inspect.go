package pipeline

import (
	"context"
	"log/slog"

	"github.com/mchmarny/trustscore/pkg/artifact"
	"github.com/mchmarny/trustscore/pkg/metric"
	"github.com/mchmarny/trustscore/pkg/record"
	"github.com/mchmarny/trustscore/pkg/remote"
)

// Evidence is everything known about one artifact: how the reference was
// resolved, the raw metric values before calibration and the final record.
type Evidence struct {
	Ref        artifact.Ref            `json:"ref" yaml:"ref"`
	Dir        string                  `json:"dir,omitempty" yaml:"dir,omitempty"`
	Git        bool                    `json:"git" yaml:"git"`
	Files      int                     `json:"files" yaml:"files"`
	Commits    int                     `json:"commits,omitempty" yaml:"commits,omitempty"`
	Remote     *remote.RepoMeta        `json:"remote,omitempty" yaml:"remote,omitempty"`
	Raw        map[string]metric.Value `json:"raw" yaml:"raw"`
	Maintainer *metric.Maintainer      `json:"maintainer,omitempty" yaml:"maintainer,omitempty"`
	Record     record.Record           `json:"record" yaml:"record"`
}

// Inspect scores ref like Score but returns the first extractor error
// instead of degrading, along with the raw evidence.
func (s *Scorer) Inspect(ctx context.Context, raw string) (*Evidence, error) {
	ref := artifact.Parse(raw)
	t := s.Target(ctx, ref)

	ev := &Evidence{
		Ref:    ref,
		Dir:    t.Dir,
		Git:    t.Repo != nil,
		Remote: t.Remote,
		Raw:    make(map[string]metric.Value, len(s.extractors)),
	}

	if t.Local() {
		files, err := t.Files()
		if err != nil {
			return nil, err
		}
		ev.Files = len(files)
	}

	results, err := s.collect(ctx, t)
	if err != nil {
		return nil, err
	}
	for i, e := range s.extractors {
		ev.Raw[e.Name()] = results[i].value
	}

	rec, err := s.assemble(t, results)
	if err != nil {
		return nil, err
	}
	ev.Record = rec

	if t.Repo != nil {
		if n, err := t.Repo.CommitCount(); err == nil {
			ev.Commits = n
		} else {
			slog.Debug("no commit count", "dir", t.Dir, "error", err)
		}

		m, err := metric.TopMaintainer(t)
		if err != nil {
			slog.Debug("no maintainer signal", "dir", t.Dir, "error", err)
		} else {
			ev.Maintainer = m
		}
	}

	return ev, nil
}
