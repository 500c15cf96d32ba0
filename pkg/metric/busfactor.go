package metric

import (
	"log/slog"

	"github.com/mchmarny/trustscore/pkg/git"
	"github.com/mchmarny/trustscore/pkg/score"
)

const (
	diversityWeight    = 0.7
	contributorsWeight = 0.3
	contributorsKnee   = 5
	contributorsMax    = 20
)

// BusFactor scores how evenly commits are spread across authors.
type BusFactor struct{}

func (BusFactor) Name() string { return score.BusFactor }

func (BusFactor) Evaluate(t *Target) (Value, error) {
	if !t.Local() {
		return fallback(t, score.BusFactor), nil
	}
	if t.Repo == nil {
		return Scalar(0), nil
	}

	emails, err := t.Repo.AuthorEmails()
	if err != nil {
		slog.Debug("no author history", "dir", t.Dir, "error", err)
		return Scalar(0), nil
	}

	return Scalar(BusFactorScore(git.CountAuthors(emails))), nil
}

// BusFactorScore combines author diversity (1 - share of the most active
// author) with a saturating count of distinct contributors.
func BusFactorScore(authors []git.AuthorCount) float64 {
	var total, top int
	for _, a := range authors {
		total += a.Commits
		top = max(top, a.Commits)
	}
	if total == 0 {
		return 0
	}

	diversity := 1 - float64(top)/float64(total)
	contributors := score.SaturatingScale(float64(len(authors)), contributorsKnee, contributorsMax)
	return score.Clamp01(diversityWeight*diversity + contributorsWeight*contributors)
}
