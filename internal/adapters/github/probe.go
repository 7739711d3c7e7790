package github

import (
	"context"
	"strings"

	perrs "ricochet/internal/platform/errors"
)

// Probe is the website checker's GitHub REST fallback, consulted when a
// plain HTTP request against a github.com URI comes back non-2xx
type Probe struct{ c *Client }

// NewProbe constructs a Probe using the given GitHub client
func NewProbe(c *Client) *Probe { return &Probe{c: c} }

// Resolve implements the fallback described for GitHub URIs: GET
// /repos/{owner}/{repo}, and additionally GET
// /repos/{owner}/{repo}/contents/{endpoint} when endpoint is non-empty.
// Returns (status code to report, hint, error)
func (p *Probe) Resolve(ctx context.Context, ownerRepo, endpoint string) (int, string, error) {
	owner, repo, ok := strings.Cut(ownerRepo, "/")
	if !ok || owner == "" || repo == "" {
		return 0, "", perrs.InvalidURLf("malformed github owner/repo %q", ownerRepo)
	}

	if _, err := p.c.Repository(ctx, owner, repo); err != nil {
		if se, ok := asStatusError(err); ok {
			return se.Status, se.Hint, err
		}
		return 0, "", err
	}

	if endpoint == "" {
		return 200, "", nil
	}

	_, exists, err := p.c.ContentsEntry(ctx, owner, repo, endpoint)
	if err != nil {
		if se, ok := asStatusError(err); ok {
			return se.Status, se.Hint, err
		}
		return 0, "", err
	}
	if !exists {
		return 404, "", nil
	}
	return 200, "", nil
}
