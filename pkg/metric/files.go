package metric

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
)

var (
	readmeNames = []string{"README.md", "README.rst", "README.txt", "README"}

	sourceExts = map[string]bool{
		".py": true, ".js": true, ".ts": true, ".java": true, ".cs": true,
		".go": true, ".rb": true, ".cpp": true, ".cc": true, ".c": true,
		".hpp": true, ".h": true, ".rs": true, ".php": true, ".scala": true,
		".kt": true, ".swift": true, ".jl": true, ".r": true, ".sh": true,
	}

	dataExts = map[string]bool{
		".csv": true, ".tsv": true, ".jsonl": true,
	}
)

// readText reads at most limit bytes of the file. A missing file is not an
// error: found is false.
func readText(p string, limit int64) (text string, found bool, err error) {
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("opening %s: %w", p, err)
	}
	defer f.Close()

	r := io.Reader(f)
	if limit > 0 {
		r = io.LimitReader(f, limit)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", p, err)
	}
	return string(b), true, nil
}

// findFold returns the first of names present as a regular file in dir,
// compared case-insensitively.
func findFold(dir string, names ...string) (string, bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false, fmt.Errorf("listing %s: %w", dir, err)
	}
	byName := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			byName[strings.ToLower(e.Name())] = e.Name()
		}
	}
	for _, n := range names {
		if actual, ok := byName[strings.ToLower(n)]; ok {
			return actual, true, nil
		}
	}
	return "", false, nil
}

// hasDirFold reports whether dir holds a sub-directory with one of names.
func hasDirFold(dir string, names ...string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		for _, n := range names {
			if strings.EqualFold(e.Name(), n) {
				return true
			}
		}
	}
	return false
}

// readme returns the README text of a local target.
func readme(t *Target) (string, bool, error) {
	name, ok, err := findFold(t.Dir, readmeNames...)
	if err != nil || !ok {
		return "", false, err
	}
	return readText(t.Path(name), t.Limits.MaxReadBytes)
}

func ext(p string) string {
	return strings.ToLower(path.Ext(p))
}

func isSourceFile(p string) bool {
	return sourceExts[ext(p)]
}

func isDataFile(p string) bool {
	return dataExts[ext(p)]
}
