package metric

import (
	"path"
	"regexp"
	"strings"

	"github.com/mchmarny/trustscore/pkg/score"
)

const (
	maxDocFiles    = 10
	termsCredit    = 0.4
	unitsCredit    = 0.2
	tableCredit    = 0.1
	benchDirCredit = 0.3
)

var (
	benchTermsRx = regexp.MustCompile(`(?i)\b(benchmarks?|accuracy|f1|bleu|rouge|throughput|latency|perplexity|mmlu|glue|squad|top-[15]|state-of-the-art|sota)\b`)
	benchUnitsRx = regexp.MustCompile(`(?i)\d+(\.\d+)?\s?(ms|s|sec|seconds|it/s|tokens/s|qps|fps)\b`)
	tableRowRx   = regexp.MustCompile(`(?m)^\s*\|.*\|\s*$`)
	tableSepRx   = regexp.MustCompile(`(?m)^\s*\|?\s*:?-{3,}:?\s*(\|\s*:?-{3,}:?\s*)*\|?\s*$`)

	benchDirs = map[string]bool{
		"benchmark": true, "benchmarks": true, "bench": true, "benches": true,
		"evals": true, "evaluation": true,
	}
)

// PerformanceClaims scores how well documented performance claims are.
type PerformanceClaims struct{}

func (PerformanceClaims) Name() string { return score.PerformanceClaims }

func (PerformanceClaims) Evaluate(t *Target) (Value, error) {
	if !t.Local() {
		return fallback(t, score.PerformanceClaims), nil
	}

	files, err := t.Files()
	if err != nil {
		return Value{}, err
	}

	txt, err := docText(t, files)
	if err != nil {
		return Value{}, err
	}

	var s float64
	if benchTermsRx.MatchString(txt) {
		s += termsCredit
	}
	if benchUnitsRx.MatchString(txt) {
		s += unitsCredit
	}
	if tableRowRx.MatchString(txt) && tableSepRx.MatchString(txt) {
		s += tableCredit
	}
	if hasBenchDir(files) {
		s += benchDirCredit
	}
	return Scalar(s), nil
}

// docText joins the README with up to maxDocFiles markdown files under docs/.
func docText(t *Target, files []string) (string, error) {
	var sb strings.Builder

	txt, _, err := readme(t)
	if err != nil {
		return "", err
	}
	sb.WriteString(txt)

	var n int
	for _, f := range files {
		if n >= maxDocFiles {
			break
		}
		if !strings.HasPrefix(strings.ToLower(f), "docs/") || ext(f) != ".md" {
			continue
		}
		doc, found, err := readText(t.Path(f), t.Limits.MaxReadBytes)
		if err != nil {
			return "", err
		}
		if found {
			sb.WriteString("\n")
			sb.WriteString(doc)
			n++
		}
	}
	return sb.String(), nil
}

func hasBenchDir(files []string) bool {
	for _, f := range files {
		dir := path.Dir(f)
		if dir == "." {
			continue
		}
		for _, seg := range strings.Split(dir, "/") {
			if benchDirs[strings.ToLower(seg)] {
				return true
			}
		}
	}
	return false
}
