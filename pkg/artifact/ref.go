package artifact

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Category of a scored artifact.
type Category string

const (
	CategoryModel   Category = "MODEL"
	CategoryDataset Category = "DATASET"
	CategoryCode    Category = "CODE"

	fileScheme = "file://"
)

var (
	codeHosts = []string{"github.com", "gitlab.com", "bitbucket.org"}

	// path segments after which the remaining path is a revision or file
	hubRevisionMarkers = map[string]bool{"tree": true, "blob": true, "resolve": true, "commit": true}
)

// Ref is an immutable, classified artifact reference.
type Ref struct {
	Raw      string   `json:"url" yaml:"url"`
	Name     string   `json:"name" yaml:"name"`
	Category Category `json:"category" yaml:"category"`
	Host     string   `json:"host,omitempty" yaml:"host,omitempty"`
	Owner    string   `json:"owner,omitempty" yaml:"owner,omitempty"`
	Repo     string   `json:"repo,omitempty" yaml:"repo,omitempty"`
}

// Parse classifies raw into a Ref. It never fails: anything that is neither
// a known hub URL nor a code host URL is treated as code.
func Parse(raw string) Ref {
	raw = strings.TrimSpace(raw)
	r := Ref{Raw: raw, Category: CategoryCode}

	if p, ok := localPath(raw); ok {
		r.Name = strings.ToLower(filepath.Base(filepath.Clean(p)))
		return r
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		r.Name = lastSegment(raw)
		return r
	}

	r.Host = strings.ToLower(strings.TrimPrefix(u.Host, "www."))
	parts := splitPath(u.Path)

	switch {
	case r.Host == "huggingface.co":
		r.Category = CategoryModel
		if len(parts) > 0 && parts[0] == "datasets" {
			r.Category = CategoryDataset
			parts = parts[1:]
		}
		parts = trimRevision(parts)
		setOwnerRepo(&r, parts)
	case isCodeHost(r.Host):
		r.Category = CategoryCode
		parts = trimRevision(parts)
		setOwnerRepo(&r, parts)
	default:
		if len(parts) > 0 {
			r.Repo = strings.TrimSuffix(parts[len(parts)-1], ".git")
		}
	}

	r.Name = strings.ToLower(r.Repo)
	if r.Name == "" {
		r.Name = lastSegment(raw)
	}
	return r
}

// LocalDir returns the directory the reference points to when it can be
// inspected on the local file system.
func (r Ref) LocalDir() (string, bool) {
	p, ok := localPath(r.Raw)
	if !ok {
		return "", false
	}
	info, err := os.Stat(p)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return p, true
}

// IsGitHub reports whether the reference is a github.com repository.
func (r Ref) IsGitHub() bool {
	return r.Host == "github.com" && r.Owner != "" && r.Repo != ""
}

func localPath(raw string) (string, bool) {
	p := raw
	if strings.HasPrefix(p, fileScheme) {
		p = strings.TrimPrefix(p, fileScheme)
	} else if strings.Contains(p, "://") {
		return "", false
	}
	if p == "" {
		return "", false
	}
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return p, true
}

func setOwnerRepo(r *Ref, parts []string) {
	switch len(parts) {
	case 0:
	case 1:
		r.Repo = parts[0]
	default:
		r.Owner = parts[0]
		r.Repo = strings.TrimSuffix(parts[1], ".git")
	}
}

func trimRevision(parts []string) []string {
	for i, p := range parts {
		if hubRevisionMarkers[p] {
			return parts[:i]
		}
	}
	return parts
}

func splitPath(p string) []string {
	list := make([]string, 0)
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			list = append(list, s)
		}
	}
	return list
}

func isCodeHost(host string) bool {
	for _, h := range codeHosts {
		if host == h {
			return true
		}
	}
	return false
}

func lastSegment(raw string) string {
	parts := splitPath(strings.TrimRight(raw, "/"))
	if len(parts) == 0 {
		return strings.ToLower(raw)
	}
	return strings.ToLower(strings.TrimSuffix(parts[len(parts)-1], ".git"))
}
