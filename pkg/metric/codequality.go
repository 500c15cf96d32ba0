package metric

import (
	"bufio"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mchmarny/trustscore/pkg/score"
)

const (
	lintConfigCredit = 0.1
	lintConfigMax    = 0.3
	ciCredit         = 0.2
	testsCredit      = 0.2
	longLineLimit    = 120
)

var (
	lintConfigs = [][]string{
		{".flake8"},
		{".pylintrc", "pylintrc"},
		{"ruff.toml", ".ruff.toml"},
		{"mypy.ini", ".mypy.ini"},
		{".isort.cfg"},
		{".golangci.yml", ".golangci.yaml", ".golangci.toml"},
		{".eslintrc", ".eslintrc.js", ".eslintrc.cjs", ".eslintrc.json", ".eslintrc.yml", ".eslintrc.yaml", "eslint.config.js", "eslint.config.mjs"},
		{".prettierrc", ".prettierrc.json", ".prettierrc.yml", ".prettierrc.yaml", "prettier.config.js"},
		{".editorconfig"},
		{".clang-format"},
		{".clang-tidy"},
		{"rustfmt.toml", ".rustfmt.toml"},
		{".pre-commit-config.yaml"},
		{".rubocop.yml"},
		{".stylelintrc", ".stylelintrc.json"},
	}

	ciFiles = map[string]bool{
		".gitlab-ci.yml":          true,
		".circleci/config.yml":    true,
		".travis.yml":             true,
		"Jenkinsfile":             true,
		"azure-pipelines.yml":     true,
		"bitbucket-pipelines.yml": true,
	}

	testDirs = map[string]bool{
		"test": true, "tests": true, "__tests__": true, "spec": true, "testing": true,
	}

	testFileRx = regexp.MustCompile(`(?i)(^test_.*\.py$|_test\.(py|go)$|\.(test|spec)\.(js|jsx|ts|tsx)$|Test\.java$|_spec\.rb$)`)
	todoRx     = regexp.MustCompile(`\b(TODO|FIXME)\b`)
)

// CodeQuality scores engineering hygiene signals of a code base.
type CodeQuality struct{}

func (CodeQuality) Name() string { return score.CodeQuality }

func (CodeQuality) Evaluate(t *Target) (Value, error) {
	if !t.Local() {
		return fallback(t, score.CodeQuality), nil
	}

	files, err := t.Files()
	if err != nil {
		return Value{}, err
	}

	var s float64

	configs, err := countLintConfigs(t.Dir)
	if err != nil {
		return Value{}, err
	}
	s += min(float64(configs)*lintConfigCredit, lintConfigMax)

	if hasCI(files) {
		s += ciCredit
	}
	if hasTests(files) || hasDirFold(t.Dir, "test", "tests") {
		s += testsCredit
	}

	st, err := scanSources(t, files)
	if err != nil {
		return Value{}, err
	}
	if st.lines > 0 {
		long := float64(st.longLines) / float64(st.lines)
		switch {
		case long <= 0.05:
			s += 0.2
		case long <= 0.15:
			s += 0.1
		}

		todo := float64(st.todos) / float64(st.lines)
		switch {
		case todo <= 0.002:
			s += 0.1
		case todo >= 0.02:
			s -= 0.05
		}
	}

	return Scalar(s), nil
}

func countLintConfigs(dir string) (int, error) {
	var n int
	for _, group := range lintConfigs {
		_, ok, err := findFold(dir, group...)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func hasCI(files []string) bool {
	for _, f := range files {
		if ciFiles[f] {
			return true
		}
		if strings.HasPrefix(f, ".github/workflows/") {
			if e := ext(f); e == ".yml" || e == ".yaml" {
				return true
			}
		}
	}
	return false
}

func hasTests(files []string) bool {
	for _, f := range files {
		dir, base := path.Split(f)
		if testFileRx.MatchString(base) {
			return true
		}
		for _, seg := range strings.Split(strings.Trim(dir, "/"), "/") {
			if testDirs[strings.ToLower(seg)] {
				return true
			}
		}
	}
	return false
}

type sourceStats struct {
	files     int
	lines     int
	longLines int
	todos     int
}

// scanSources reads up to Limits.MaxSourceFiles source files.
func scanSources(t *Target, files []string) (sourceStats, error) {
	var st sourceStats
	for _, f := range files {
		if st.files >= t.Limits.MaxSourceFiles {
			break
		}
		if !isSourceFile(f) {
			continue
		}
		txt, found, err := readText(t.Path(f), t.Limits.MaxReadBytes)
		if err != nil {
			return st, err
		}
		if !found {
			continue
		}
		st.files++

		sc := bufio.NewScanner(strings.NewReader(txt))
		sc.Buffer(make([]byte, 0, 64*1024), int(max(t.Limits.MaxReadBytes, 64*1024)))
		for sc.Scan() {
			line := sc.Text()
			st.lines++
			if utf8.RuneCountInString(line) > longLineLimit {
				st.longLines++
			}
			if todoRx.MatchString(line) {
				st.todos++
			}
		}
	}
	return st, nil
}
