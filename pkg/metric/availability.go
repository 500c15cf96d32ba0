package metric

import (
	"log/slog"
	"time"

	"github.com/mchmarny/trustscore/pkg/score"
)

const (
	availabilityExists   = 0.3
	availabilityHead     = 0.3
	availabilityRecent   = 0.4
	availabilityArchived = 0.1
	freshDays            = 90
	staleDays            = 365
)

// now is replaced in tests.
var now = time.Now

// Availability scores whether the artifact is reachable and maintained.
// It is reported but carries no weight by default.
type Availability struct{}

func (Availability) Name() string { return score.Availability }

func (Availability) Evaluate(t *Target) (Value, error) {
	if !t.Local() {
		if t.Remote != nil {
			if t.Remote.Archived {
				return Scalar(availabilityArchived), nil
			}
			return Scalar(availabilityExists + availabilityHead + recency(t.Remote.PushedAt)), nil
		}
		return fallback(t, score.Availability), nil
	}

	s := availabilityExists
	if t.Repo == nil {
		return Scalar(s), nil
	}

	if _, err := t.Repo.Head(); err != nil {
		slog.Debug("no head", "dir", t.Dir, "error", err)
		return Scalar(s), nil
	}
	s += availabilityHead

	last, err := t.Repo.LastCommit()
	if err != nil {
		slog.Debug("no last commit", "dir", t.Dir, "error", err)
		return Scalar(s), nil
	}
	return Scalar(s + recency(last)), nil
}

// recency is the full credit up to freshDays old, fading linearly to zero
// at staleDays.
func recency(last time.Time) float64 {
	if last.IsZero() {
		return 0
	}
	days := now().Sub(last).Hours() / 24
	switch {
	case days <= freshDays:
		return availabilityRecent
	case days >= staleDays:
		return 0
	default:
		return availabilityRecent * (staleDays - days) / (staleDays - freshDays)
	}
}
