// Package gittest builds throwaway git repositories for tests.
package gittest

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

// Commit describes one commit written by Init.
type Commit struct {
	Author string
	File   string
	Body   string
	When   time.Time
}

// Available reports whether the git binary can be used.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Init creates a repository in dir with the given commits, skipping the test
// when git is not installed.
func Init(t testing.TB, dir string, commits ...Commit) {
	t.Helper()
	if !Available() {
		t.Skip("git binary not available")
	}

	run(t, dir, nil, "init", "-q")
	run(t, dir, nil, "config", "user.name", "test")
	run(t, dir, nil, "config", "user.email", "test@example.com")
	run(t, dir, nil, "config", "commit.gpgsign", "false")

	for i, c := range commits {
		name := c.File
		if name == "" {
			name = "file.txt"
		}
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			t.Fatalf("creating dir for %s: %v", p, err)
		}
		body := c.Body
		if body == "" {
			body = "change " + string(rune('a'+i%26)) + "\n"
		}
		f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			t.Fatalf("opening %s: %v", p, err)
		}
		if _, err := f.WriteString(body); err != nil {
			f.Close()
			t.Fatalf("writing %s: %v", p, err)
		}
		f.Close()

		when := c.When
		if when.IsZero() {
			when = time.Now().Add(-time.Duration(len(commits)-i) * time.Hour)
		}
		author := c.Author
		if author == "" {
			author = "test@example.com"
		}
		env := []string{
			"GIT_AUTHOR_NAME=" + author,
			"GIT_AUTHOR_EMAIL=" + author,
			"GIT_AUTHOR_DATE=" + when.Format(time.RFC3339),
			"GIT_COMMITTER_NAME=" + author,
			"GIT_COMMITTER_EMAIL=" + author,
			"GIT_COMMITTER_DATE=" + when.Format(time.RFC3339),
		}
		run(t, dir, nil, "add", "-A")
		run(t, dir, env, "commit", "-q", "-m", "commit")
	}
}

func run(t testing.TB, dir string, env []string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	cmd.Env = append(os.Environ(), env...)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v: %s", args, err, out)
	}
}
