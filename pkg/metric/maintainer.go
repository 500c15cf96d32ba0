package metric

import (
	"fmt"
	"math"

	reputer "github.com/mchmarny/reputer/pkg/score"
)

// Maintainer summarizes the most active author of a local repository.
type Maintainer struct {
	Author         string  `json:"author" yaml:"author"`
	Commits        int     `json:"commits" yaml:"commits"`
	Share          float64 `json:"share" yaml:"share"`
	Contributors   int     `json:"contributors" yaml:"contributors"`
	LastCommitDays int64   `json:"last_commit_days" yaml:"lastCommitDays"`
	Reputation     float64 `json:"reputation" yaml:"reputation"`
}

// TopMaintainer computes the maintainer signal from local git history.
// Only the signals available without a network lookup are populated.
func TopMaintainer(t *Target) (*Maintainer, error) {
	if t.Repo == nil {
		return nil, ErrNotLocal
	}

	authors, err := t.Repo.Authors()
	if err != nil {
		return nil, fmt.Errorf("reading authors: %w", err)
	}
	if len(authors) == 0 {
		return nil, fmt.Errorf("reading authors of %s: no commits", t.Dir)
	}

	var total int
	for _, a := range authors {
		total += a.Commits
	}

	top := authors[0]
	last, err := t.Repo.LastCommitBy(top.Author)
	if err != nil {
		return nil, fmt.Errorf("reading last commit of %s: %w", top.Author, err)
	}
	days := int64(math.Max(0, math.Floor(now().Sub(last).Hours()/24)))

	m := &Maintainer{
		Author:         top.Author,
		Commits:        top.Commits,
		Share:          float64(top.Commits) / float64(total),
		Contributors:   len(authors),
		LastCommitDays: days,
	}
	m.Reputation = reputer.Compute(reputer.Signals{
		Commits:           int64(top.Commits),
		TotalCommits:      int64(total),
		TotalContributors: len(authors),
		LastCommitDays:    days,
	})
	return m, nil
}
