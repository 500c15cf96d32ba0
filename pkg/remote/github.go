// Package remote looks up repository metadata on GitHub for references that
// can not be inspected locally.
package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v83/github"
)

const (
	rateLimitThreshold = 10
	maxRateLimitWait   = 30 * time.Second
)

// RepoMeta is the subset of repository metadata used as evidence.
type RepoMeta struct {
	Owner      string    `json:"owner" yaml:"owner"`
	Repo       string    `json:"repo" yaml:"repo"`
	License    string    `json:"license" yaml:"license"`
	Archived   bool      `json:"archived" yaml:"archived"`
	PushedAt   time.Time `json:"pushed_at" yaml:"pushedAt"`
	SizeKB     int       `json:"size_kb" yaml:"sizeKB"`
	Stars      int       `json:"stars" yaml:"stars"`
	Forks      int       `json:"forks" yaml:"forks"`
	OpenIssues int       `json:"open_issues" yaml:"openIssues"`
}

// Client fetches repository metadata.
type Client struct {
	gh *github.Client
}

// NewClient returns a GitHub metadata client over httpClient.
func NewClient(httpClient *http.Client) *Client {
	return &Client{gh: github.NewClient(httpClient)}
}

// SetBaseURL points the client at a different API endpoint.
func (c *Client) SetBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parsing base URL %s: %w", raw, err)
	}
	c.gh.BaseURL = u
	return nil
}

// RepoMeta returns metadata for owner/repo.
func (c *Client) RepoMeta(ctx context.Context, owner, repo string) (*RepoMeta, error) {
	if owner == "" || repo == "" {
		return nil, errors.New("owner and repo are required")
	}

	r, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("error getting repo %s/%s: %w", owner, repo, err)
	}
	checkRateLimit(resp)

	m := &RepoMeta{
		Owner:      owner,
		Repo:       repo,
		Archived:   r.GetArchived(),
		PushedAt:   r.GetPushedAt().Time,
		SizeKB:     r.GetSize(),
		Stars:      r.GetStargazersCount(),
		Forks:      r.GetForksCount(),
		OpenIssues: r.GetOpenIssuesCount(),
	}
	if r.License != nil {
		m.License = r.License.GetSPDXID()
	}

	slog.Debug("fetched repo metadata", "owner", owner, "repo", repo, "license", m.License, "rate", rateInfo(resp))
	return m, nil
}

func rateInfo(resp *github.Response) string {
	if resp == nil {
		return ""
	}
	return fmt.Sprintf("%d/%d", resp.Rate.Remaining, resp.Rate.Limit)
}

func checkRateLimit(resp *github.Response) {
	if resp == nil {
		return
	}

	if resp.Rate.Remaining > rateLimitThreshold {
		return
	}

	resetAt := resp.Rate.Reset.Time
	wait := time.Until(resetAt)
	if wait <= 0 {
		return
	}

	jitter := time.Duration(rand.IntN(2000)) * time.Millisecond
	total := min(wait+jitter, maxRateLimitWait)

	slog.Info("rate limit approaching, waiting",
		"remaining", resp.Rate.Remaining,
		"reset_at", resetAt.Format(time.RFC3339),
		"wait", total.String(),
	)

	time.Sleep(total)
}
