package metric

import (
	"regexp"

	"github.com/mchmarny/trustscore/pkg/score"
)

const (
	codeEvidenceCredit    = 0.5
	datasetEvidenceCredit = 0.5
)

var datasetLinkRx = regexp.MustCompile(`(?i)huggingface\.co/datasets/|\bdatasets?\b`)

// DatasetAndCode scores whether the artifact ships both code and the data
// it was built on.
type DatasetAndCode struct{}

func (DatasetAndCode) Name() string { return score.DatasetAndCode }

func (DatasetAndCode) Evaluate(t *Target) (Value, error) {
	if !t.Local() {
		return fallback(t, score.DatasetAndCode), nil
	}

	files, err := t.Files()
	if err != nil {
		return Value{}, err
	}

	var hasCode, hasData bool
	for _, f := range files {
		hasCode = hasCode || isSourceFile(f)
		hasData = hasData || isDataFile(f)
		if hasCode && hasData {
			break
		}
	}

	if !hasData {
		txt, found, err := readme(t)
		if err != nil {
			return Value{}, err
		}
		hasData = found && datasetLinkRx.MatchString(txt)
	}

	var s float64
	if hasCode {
		s += codeEvidenceCredit
	}
	if hasData {
		s += datasetEvidenceCredit
	}
	return Scalar(s), nil
}
