package metric

import (
	"bufio"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/mchmarny/trustscore/pkg/score"
)

const (
	datasetNeutral    = 0.5
	datasetUnreadable = 0.4
	datasetEmpty      = 0.3
	headerCredit      = 0.2
	blankPenalty      = 0.1
	blankRatioLimit   = 0.1
	headerAlphaShare  = 0.6
)

// DatasetQuality scores the structural health of tabular and JSONL data
// files. Code-only artifacts get a neutral score.
type DatasetQuality struct{}

func (DatasetQuality) Name() string { return score.DatasetQuality }

func (DatasetQuality) Evaluate(t *Target) (Value, error) {
	if !t.Local() {
		return fallback(t, score.DatasetQuality), nil
	}

	files, err := t.Files()
	if err != nil {
		return Value{}, err
	}

	var sum float64
	var counted int
	for _, f := range files {
		if counted >= t.Limits.MaxDataFiles {
			break
		}
		switch ext(f) {
		case ".csv":
			sum += scoreDelimited(t.Path(f), ',', t.Limits.MaxRows)
		case ".tsv":
			sum += scoreDelimited(t.Path(f), '\t', t.Limits.MaxRows)
		case ".jsonl":
			sum += scoreJSONL(t.Path(f), t.Limits.MaxRows)
		default:
			continue
		}
		counted++
	}

	if counted == 0 {
		return Scalar(datasetNeutral), nil
	}
	return Scalar(sum / float64(counted)), nil
}

// scoreDelimited grades header quality, column-count consistency and blank
// rows over the first maxRows lines of a CSV or TSV file.
func scoreDelimited(p string, delim rune, maxRows int) float64 {
	lines, err := headLines(p, maxRows)
	if err != nil {
		slog.Debug("unreadable data file", "path", p, "error", err)
		return datasetUnreadable
	}
	if len(lines) == 0 {
		return datasetEmpty
	}

	var blank int
	content := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.Trim(l, " \t\r"+string(delim)) == "" {
			blank++
			continue
		}
		content = append(content, l)
	}
	if len(content) == 0 {
		return datasetEmpty
	}

	r := csv.NewReader(strings.NewReader(strings.Join(content, "\n")))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows := make([][]string, 0, len(content))
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Debug("malformed data row", "path", p, "error", err)
			break
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return datasetEmpty
	}

	var s float64
	if goodHeader(rows[0]) {
		s += headerCredit
	}

	switch c := consistency(rows); {
	case c >= 0.98:
		s += 0.5
	case c >= 0.9:
		s += 0.35
	case c >= 0.75:
		s += 0.2
	}

	if float64(blank)/float64(len(lines)) >= blankRatioLimit {
		s -= blankPenalty
	}

	return score.Clamp01(s)
}

// scoreJSONL grades the share of lines that look like JSON objects.
func scoreJSONL(p string, maxRows int) float64 {
	lines, err := headLines(p, maxRows)
	if err != nil {
		slog.Debug("unreadable data file", "path", p, "error", err)
		return datasetUnreadable
	}
	if len(lines) == 0 {
		return datasetEmpty
	}

	var valid int
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if strings.HasPrefix(l, "{") && strings.HasSuffix(l, "}") {
			valid++
		}
	}

	switch ratio := float64(valid) / float64(len(lines)); {
	case ratio >= 0.98:
		return 0.8
	case ratio >= 0.9:
		return 0.7
	case ratio >= 0.75:
		return 0.6
	default:
		return 0.4
	}
}

func goodHeader(h []string) bool {
	seen := make(map[string]bool, len(h))
	var alpha int
	for _, c := range h {
		if seen[c] {
			return false
		}
		seen[c] = true
		if c != "" && !allDigits(c) {
			alpha++
		}
	}
	return alpha >= max(1, int(headerAlphaShare*float64(len(h))))
}

// consistency is the share of rows having the most common column count.
func consistency(rows [][]string) float64 {
	counts := make(map[int]int)
	var top int
	for _, r := range rows {
		counts[len(r)]++
		top = max(top, counts[len(r)])
	}
	return float64(top) / float64(len(rows))
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func headLines(p string, maxLines int) ([]string, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	list := make([]string, 0)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		if maxLines > 0 && len(list) >= maxLines {
			break
		}
		list = append(list, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
