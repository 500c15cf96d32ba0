// Package git reads local repository history through the git binary.
// Every failure (missing binary, not a repository, empty history) is
// reported as an error so callers can treat it as "no evidence".
package git

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotRepository is returned when the directory has no git metadata.
	ErrNotRepository = errors.New("not a git repository")

	// ErrNoHistory is returned for repositories without commits.
	ErrNoHistory = errors.New("no commit history")

	gitBinary = "git"
)

// Repo is a local git working tree.
type Repo struct {
	dir string
}

// AuthorCount is the number of commits by one author.
type AuthorCount struct {
	Author  string `json:"author" yaml:"author"`
	Commits int    `json:"commits" yaml:"commits"`
}

// Open returns the repository rooted at dir.
func Open(dir string) (*Repo, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	if _, err := os.Stat(filepath.Join(abs, ".git")); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, abs)
	}
	r := &Repo{dir: abs}
	out, err := r.run("rev-parse", "--is-inside-work-tree")
	if err != nil || strings.TrimSpace(out) != "true" {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, abs)
	}
	return r, nil
}

// Head returns the commit hash of HEAD.
func (r *Repo) Head() (string, error) {
	out, err := r.run("rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoHistory, err)
	}
	return strings.TrimSpace(out), nil
}

// CommitCount returns the number of commits reachable from HEAD.
func (r *Repo) CommitCount() (int, error) {
	out, err := r.run("rev-list", "--count", "HEAD")
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNoHistory, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("parsing commit count %q: %w", out, err)
	}
	return n, nil
}

// AuthorEmails returns the lower-cased author email of every commit.
func (r *Repo) AuthorEmails() ([]string, error) {
	out, err := r.run("log", "--pretty=%ae")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoHistory, err)
	}
	list := make([]string, 0)
	for _, line := range strings.Split(out, "\n") {
		a := strings.ToLower(strings.TrimSpace(line))
		if a != "" {
			list = append(list, a)
		}
	}
	return list, nil
}

// Authors returns commit counts per author, most active first. Ties are
// ordered by author for stable output.
func (r *Repo) Authors() ([]AuthorCount, error) {
	emails, err := r.AuthorEmails()
	if err != nil {
		return nil, err
	}
	return CountAuthors(emails), nil
}

// LastCommit returns the committer time of HEAD.
func (r *Repo) LastCommit() (time.Time, error) {
	out, err := r.run("log", "-1", "--format=%ct")
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrNoHistory, err)
	}
	sec, err := strconv.ParseInt(strings.TrimSpace(out), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing commit time %q: %w", out, err)
	}
	return time.Unix(sec, 0).UTC(), nil
}

// LastCommitBy returns the most recent commit time of author.
func (r *Repo) LastCommitBy(author string) (time.Time, error) {
	out, err := r.run("log", "-1", "-i", "--format=%ct", "--author="+regexp.QuoteMeta(author))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrNoHistory, err)
	}
	s := strings.TrimSpace(out)
	if s == "" {
		return time.Time{}, ErrNoHistory
	}
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing commit time %q: %w", out, err)
	}
	return time.Unix(sec, 0).UTC(), nil
}

// TrackedFiles returns up to limit paths tracked by git, relative to the
// repository root. A limit <= 0 returns all of them.
func (r *Repo) TrackedFiles(limit int) ([]string, error) {
	out, err := r.run("-c", "core.quotePath=false", "ls-files", "-z")
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	list := make([]string, 0)
	for _, line := range strings.Split(out, "\x00") {
		if line == "" {
			continue
		}
		list = append(list, line)
		if limit > 0 && len(list) >= limit {
			break
		}
	}
	return list, nil
}

// CountAuthors aggregates a list of commit authors.
func CountAuthors(authors []string) []AuthorCount {
	counts := make(map[string]int)
	for _, a := range authors {
		counts[a]++
	}
	list := make([]AuthorCount, 0, len(counts))
	for a, n := range counts {
		list = append(list, AuthorCount{Author: a, Commits: n})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Commits != list[j].Commits {
			return list[i].Commits > list[j].Commits
		}
		return list[i].Author < list[j].Author
	})
	return list
}

func (r *Repo) run(args ...string) (string, error) {
	cmd := exec.Command(gitBinary, append([]string{"-C", r.dir}, args...)...) //nolint:gosec // fixed binary, args built internally
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		slog.Debug("git command failed", "dir", r.dir, "args", strings.Join(args, " "), "stderr", strings.TrimSpace(stderr.String()))
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return stdout.String(), nil
}
