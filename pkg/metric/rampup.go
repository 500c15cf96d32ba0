package metric

import (
	"regexp"

	"github.com/mchmarny/trustscore/pkg/score"
)

const (
	rampUpNoReadme = 0.05
)

var (
	rampUpTiers = []struct {
		minLen int
		credit float64
	}{
		{4000, 0.35},
		{1500, 0.25},
		{500, 0.15},
	}

	badgeRx   = regexp.MustCompile(`\[!\[`)
	installRx = regexp.MustCompile(`(?i)\b(Install|Installation)\b`)
	usageRx   = regexp.MustCompile(`(?i)\bUsage\b`)
	fenceRx   = regexp.MustCompile("```")
)

// RampUp scores how quickly a newcomer can start using the artifact.
type RampUp struct{}

func (RampUp) Name() string { return score.RampUp }

func (RampUp) Evaluate(t *Target) (Value, error) {
	if !t.Local() {
		return fallback(t, score.RampUp), nil
	}

	txt, found, err := readme(t)
	if err != nil {
		return Value{}, err
	}
	if !found {
		return Scalar(rampUpNoReadme), nil
	}

	var s float64
	for _, tier := range rampUpTiers {
		if len(txt) >= tier.minLen {
			s += tier.credit
			break
		}
	}
	if badgeRx.MatchString(txt) {
		s += 0.05
	}
	if installRx.MatchString(txt) {
		s += 0.15
	}
	if usageRx.MatchString(txt) {
		s += 0.15
	}
	if fenceRx.MatchString(txt) {
		s += 0.1
	}

	if _, ok, err := findFold(t.Dir, "CONTRIBUTING.md", "CONTRIBUTING.rst", "CONTRIBUTING"); err != nil {
		return Value{}, err
	} else if ok {
		s += 0.1
	}
	if hasDirFold(t.Dir, "docs", "doc") {
		s += 0.05
	}

	return Scalar(s), nil
}
