package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mchmarny/trustscore/pkg/git/gittest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_NotRepository(t *testing.T) {
	_, err := Open(t.TempDir())
	require.ErrorIs(t, err, ErrNotRepository)
}

func TestRepo_History(t *testing.T) {
	dir := t.TempDir()
	last := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	gittest.Init(t, dir,
		gittest.Commit{Author: "Alice@example.com", File: "a.go"},
		gittest.Commit{Author: "alice@example.com", File: "a.go"},
		gittest.Commit{Author: "bob@example.com", File: "b.go", When: last},
	)

	r, err := Open(dir)
	require.NoError(t, err)

	head, err := r.Head()
	require.NoError(t, err)
	assert.Len(t, head, 40)

	n, err := r.CommitCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	emails, err := r.AuthorEmails()
	require.NoError(t, err)
	assert.Len(t, emails, 3)

	authors, err := r.Authors()
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, AuthorCount{Author: "alice@example.com", Commits: 2}, authors[0])

	ts, err := r.LastCommit()
	require.NoError(t, err)
	assert.Equal(t, last.Unix(), ts.Unix())

	files, err := r.TrackedFiles(0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.go", "b.go"}, files)

	files, err = r.TrackedFiles(1)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestRepo_TrackedFiles_NonASCII(t *testing.T) {
	dir := t.TempDir()
	gittest.Init(t, dir,
		gittest.Commit{File: "données.csv"},
		gittest.Commit{File: "data/名前 with space.txt"},
	)

	r, err := Open(dir)
	require.NoError(t, err)

	files, err := r.TrackedFiles(0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"données.csv", "data/名前 with space.txt"}, files)
	for _, f := range files {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, f)
	}
}

func TestRepo_EmptyHistory(t *testing.T) {
	dir := t.TempDir()
	gittest.Init(t, dir)

	r, err := Open(dir)
	require.NoError(t, err)

	_, err = r.CommitCount()
	assert.ErrorIs(t, err, ErrNoHistory)

	_, err = r.LastCommit()
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestOpen_NestedDirectory(t *testing.T) {
	dir := t.TempDir()
	gittest.Init(t, dir, gittest.Commit{File: "sub/x.txt"})
	_, err := os.Stat(dir + "/sub")
	require.NoError(t, err)

	_, err = Open(dir + "/sub")
	assert.ErrorIs(t, err, ErrNotRepository)
}

func TestCountAuthors(t *testing.T) {
	list := CountAuthors([]string{"b", "a", "b", "c", "a"})
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].Author)
	assert.Equal(t, "b", list[1].Author)
	assert.Equal(t, "c", list[2].Author)
	assert.Empty(t, CountAuthors(nil))
}
