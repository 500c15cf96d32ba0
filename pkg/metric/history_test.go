package metric

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mchmarny/trustscore/pkg/artifact"
	"github.com/mchmarny/trustscore/pkg/git"
	"github.com/mchmarny/trustscore/pkg/git/gittest"
	"github.com/mchmarny/trustscore/pkg/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusFactor_Repository(t *testing.T) {
	dir := t.TempDir()
	gittest.Init(t, dir,
		gittest.Commit{Author: "a@example.com"},
		gittest.Commit{Author: "b@example.com"},
		gittest.Commit{Author: "c@example.com"},
		gittest.Commit{Author: "A@example.com"},
	)
	tg := localTarget(t, dir)
	require.NotNil(t, tg.Repo)

	want := BusFactorScore([]git.AuthorCount{
		{Author: "a@example.com", Commits: 2},
		{Author: "b@example.com", Commits: 1},
		{Author: "c@example.com", Commits: 1},
	})
	assert.InDelta(t, want, evaluate(t, BusFactor{}, tg).Scalar, 1e-9)
}

func TestBusFactor_EmptyHistory(t *testing.T) {
	dir := t.TempDir()
	gittest.Init(t, dir)
	assert.Equal(t, 0.0, evaluate(t, BusFactor{}, localTarget(t, dir)).Scalar)
}

func TestBusFactorScore(t *testing.T) {
	assert.Equal(t, 0.0, BusFactorScore(nil))

	solo := BusFactorScore([]git.AuthorCount{{Author: "a", Commits: 10}})
	// diversity 0, one contributor on the knee curve
	assert.InDelta(t, 0.3*0.1, solo, 1e-9)

	even := make([]git.AuthorCount, 20)
	for i := range even {
		even[i] = git.AuthorCount{Author: string(rune('a' + i)), Commits: 1}
	}
	assert.InDelta(t, 0.7*0.95+0.3, BusFactorScore(even), 1e-9)
}

func TestAvailability_Repository(t *testing.T) {
	dir := t.TempDir()
	gittest.Init(t, dir, gittest.Commit{Author: "a@example.com", When: time.Now().Add(-24 * time.Hour)})
	assert.InDelta(t, 1.0, evaluate(t, Availability{}, localTarget(t, dir)).Scalar, 1e-9)
}

func TestAvailability_Remote(t *testing.T) {
	ref := artifact.Parse("https://github.com/acme/widget")

	archived := NewTarget(ref, DefaultLimits(), &remote.RepoMeta{Archived: true, PushedAt: time.Now()})
	assert.Equal(t, 0.1, evaluate(t, Availability{}, archived).Scalar)

	stale := NewTarget(ref, DefaultLimits(), &remote.RepoMeta{PushedAt: time.Now().AddDate(-2, 0, 0)})
	assert.InDelta(t, 0.6, evaluate(t, Availability{}, stale).Scalar, 1e-9)
}

func TestRecency(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	assert.Equal(t, 0.0, recency(time.Time{}))
	assert.Equal(t, 0.4, recency(fixed.AddDate(0, 0, -10)))
	assert.Equal(t, 0.0, recency(fixed.AddDate(0, 0, -400)))
	assert.InDelta(t, 0.2, recency(fixed.Add(-time.Duration(227.5*24)*time.Hour)), 1e-9)
}

func TestTopMaintainer(t *testing.T) {
	dir := t.TempDir()
	gittest.Init(t, dir,
		gittest.Commit{Author: "Lead@example.com"},
		gittest.Commit{Author: "lead@example.com"},
		gittest.Commit{Author: "lead@example.com"},
		gittest.Commit{Author: "other@example.com"},
	)

	m, err := TopMaintainer(localTarget(t, dir))
	require.NoError(t, err)
	assert.Equal(t, "lead@example.com", m.Author)
	assert.Equal(t, 3, m.Commits)
	assert.Equal(t, 2, m.Contributors)
	assert.InDelta(t, 0.75, m.Share, 1e-9)
	assert.True(t, m.Reputation >= 0 && m.Reputation <= 1)

	_, err = TopMaintainer(localTarget(t, t.TempDir()))
	assert.ErrorIs(t, err, ErrNotLocal)
}

func TestDatasetQuality_NonASCIITrackedName(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,label\n")
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, "%d,cat\n", i)
	}

	scoreFor := func(name string) (float64, []string) {
		dir := t.TempDir()
		gittest.Init(t, dir, gittest.Commit{File: name, Body: b.String()})
		tg := localTarget(t, dir)
		require.NotNil(t, tg.Repo)
		files, err := tg.Files()
		require.NoError(t, err)
		return evaluate(t, DatasetQuality{}, tg).Scalar, files
	}

	plain, _ := scoreFor("train.csv")
	accented, files := scoreFor("données.csv")
	assert.Equal(t, []string{"données.csv"}, files)
	assert.Equal(t, plain, accented)
	assert.Greater(t, accented, 0.5)
}
