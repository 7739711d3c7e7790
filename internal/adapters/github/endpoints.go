package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Repository performs GET /repos/{owner}/{repo}
func (c *Client) Repository(ctx context.Context, owner, repo string) (Repo, error) {
	path := fmt.Sprintf("/repos/%s/%s", owner, repo)
	resp, err := c.Do(ctx, path, "")
	if err != nil {
		return Repo{}, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("github close body failed")
		}
	}()

	var out Repo
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Repo{}, perr(err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return Repo{}, perr(err)
	}
	return out, nil
}

// ContentsEntry performs GET /repos/{owner}/{repo}/contents/{endpoint},
// reporting whether the path exists in the repository
func (c *Client) ContentsEntry(ctx context.Context, owner, repo, endpoint string) (Content, bool, error) {
	path := fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, endpoint)
	resp, err := c.Do(ctx, path, "")
	if err != nil {
		if se, ok := asStatusError(err); ok && se.Status == http.StatusNotFound {
			return Content{}, false, nil
		}
		return Content{}, false, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("github close body failed")
		}
	}()

	var out Content
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Content{}, false, perr(err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return Content{}, false, perr(err)
	}
	return out, true, nil
}
