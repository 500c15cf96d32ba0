package metric

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/mchmarny/trustscore/pkg/artifact"
	"github.com/mchmarny/trustscore/pkg/git"
	"github.com/mchmarny/trustscore/pkg/remote"
)

// Limits bound how much of an artifact the extractors read.
type Limits struct {
	MaxFiles       int   `json:"max_files" yaml:"maxFiles"`
	MaxSourceFiles int   `json:"max_source_files" yaml:"maxSourceFiles"`
	MaxDataFiles   int   `json:"max_data_files" yaml:"maxDataFiles"`
	MaxRows        int   `json:"max_rows" yaml:"maxRows"`
	MaxReadBytes   int64 `json:"max_read_bytes" yaml:"maxReadBytes"`
}

// DefaultLimits returns the built-in inspection limits.
func DefaultLimits() Limits {
	return Limits{
		MaxFiles:       5000,
		MaxSourceFiles: 50,
		MaxDataFiles:   5,
		MaxRows:        200,
		MaxReadBytes:   1 << 20,
	}
}

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
	".tox":         true,
}

// Target is the evidence source for one artifact: the reference, its local
// directory and git history when resolvable, and optional remote metadata.
// It is safe for concurrent use by extractors.
type Target struct {
	Ref    artifact.Ref
	Dir    string
	Repo   *git.Repo
	Remote *remote.RepoMeta
	Limits Limits

	filesOnce sync.Once
	files     []string
	filesErr  error
}

// NewTarget resolves ref. Meta may be nil.
func NewTarget(ref artifact.Ref, limits Limits, meta *remote.RepoMeta) *Target {
	t := &Target{Ref: ref, Limits: limits, Remote: meta}
	if dir, ok := ref.LocalDir(); ok {
		t.Dir = dir
		if r, err := git.Open(dir); err == nil {
			t.Repo = r
		} else {
			slog.Debug("no git history", "dir", dir, "error", err)
		}
	}
	return t
}

// Local reports whether the artifact can be inspected on disk.
func (t *Target) Local() bool {
	return t.Dir != ""
}

// Path joins rel onto the local directory.
func (t *Target) Path(rel string) string {
	return filepath.Join(t.Dir, filepath.FromSlash(rel))
}

// Files returns up to Limits.MaxFiles slash-separated paths relative to the
// local directory: tracked files for git repositories, otherwise a walk of
// the directory. The list is computed once.
func (t *Target) Files() ([]string, error) {
	t.filesOnce.Do(func() {
		if !t.Local() {
			t.filesErr = ErrNotLocal
			return
		}
		if t.Repo != nil {
			t.files, t.filesErr = t.Repo.TrackedFiles(t.Limits.MaxFiles)
			if t.filesErr == nil {
				return
			}
			slog.Debug("falling back to directory walk", "dir", t.Dir, "error", t.filesErr)
		}
		t.files, t.filesErr = walk(t.Dir, t.Limits.MaxFiles)
	})
	return t.files, t.filesErr
}

// ErrNotLocal is returned for operations that need a local directory.
var ErrNotLocal = errors.New("artifact is not a local directory")

var errWalkLimit = errors.New("file limit reached")

func walk(dir string, limit int) ([]string, error) {
	list := make([]string, 0)
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != dir && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		list = append(list, filepath.ToSlash(rel))
		if limit > 0 && len(list) >= limit {
			return errWalkLimit
		}
		return nil
	})
	if err != nil && !errors.Is(err, errWalkLimit) {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return list, nil
}
