// Package website implements the terminal handler in the chain: it
// executes the HTTP request, classifies the response, retries
// transient failures with backoff, and falls back to the GitHub REST
// probe for github.com URIs
package website

import (
	"context"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"ricochet/internal/adapters/github"
	"ricochet/internal/adapters/hostpool"
	"ricochet/internal/core/status"
	"ricochet/internal/core/uri"
	perr "ricochet/internal/platform/errors"
)

// Config tunes the retry loop, acceptance policy, and GitHub fallback
type Config struct {
	Accept       func(code int) bool // nil means the default 100-103 + 200-299 set
	MaxRetries   int
	RetryWait    time.Duration
	GitHubProbe  *github.Probe // nil disables the fallback
	HasGitHubTok bool
}

func defaultAccept(code int) bool {
	return (code >= 100 && code <= 103) || (code >= 200 && code <= 299)
}

// NewHandler returns the chain-terminal Handler implementing §4.7. It
// reads the shared *http.Client off the context (attached by
// hostpool.Pool.Check via hostpool.WithClient) and the redirect trail
// recorded by the host's CheckRedirect policy.
func NewHandler(cfg Config) func(ctx context.Context, req *http.Request) (*http.Request, status.Status, bool) {
	accept := cfg.Accept
	if accept == nil {
		accept = defaultAccept
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	retryWait := cfg.RetryWait
	if retryWait <= 0 {
		retryWait = time.Second
	}

	return func(ctx context.Context, req *http.Request) (*http.Request, status.Status, bool) {
		client, ok := hostpool.ClientFromContext(ctx)
		if !ok {
			return nil, status.Errorf(perr.ErrorCodeBuildRequestClient, "no http client attached to context"), false
		}

		s := runWithRetry(ctx, client, req, accept, maxRetries, retryWait)

		if cfg.GitHubProbe != nil && !s.IsSuccess() {
			if ref, isGH := githubRefOf(req); isGH {
				s = applyGitHubFallback(ctx, cfg.GitHubProbe, cfg.HasGitHubTok, ref, s)
			}
		}

		return nil, s, false
	}
}

func runWithRetry(ctx context.Context, client *http.Client, req *http.Request, accept func(int) bool, maxRetries int, wait time.Duration) status.Status {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = wait
	bo.Multiplier = 2
	bo.MaxElapsedTime = 0 // the attempt counter is the only cap

	attempt := 0
	var last status.Status

	for {
		resp, err := client.Do(req.Clone(ctx))
		last = classify(req, resp, err, accept)
		if resp != nil {
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
				if d := parseRetryAfter(resp.Header, time.Now()); d > 0 {
					if host, ok := hostpool.HostFromContext(ctx); ok {
						host.RequestExtraSpacing(d)
					}
				}
			}
			if resp.Body != nil {
				_ = resp.Body.Close()
			}
		}

		if last.IsSuccess() || !shouldRetry(last) || attempt >= maxRetries {
			return last
		}

		d := bo.NextBackOff()
		t := time.NewTimer(d)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return status.Errorf(perr.ErrorCodeNetworkRequest, "cancelled during retry wait")
		}
		attempt++
	}
}

func shouldRetry(s status.Status) bool {
	if s.Kind != status.KindError {
		return false
	}
	return s.ErrorCode.Retryable() || s.Code == 408 || s.Code == 429 || (s.Code >= 500 && s.Code < 600)
}

// classify implements the ordered classification rules from §4.7
func classify(req *http.Request, resp *http.Response, err error, accept func(int) bool) status.Status {
	if err != nil {
		if hostpool.IsTooManyRedirects(err) {
			return status.Errorf(perr.ErrorCodeTooManyRedirects, "exceeded max redirects")
		}
		return status.Errorf(perr.ErrorCodeNetworkRequest, err.Error())
	}

	code := resp.StatusCode
	trail := hostpool.RedirectTrailFrom(req.Context())

	if accept(code) {
		// the trail always carries the original request URL as its first
		// entry (see Pool.Check); more than one entry means a redirect
		// was actually followed before landing on this accepted code
		if len(trail) > 1 {
			return status.RedirectedTo(code, trail)
		}
		return status.Ok(code)
	}

	switch {
	case code >= 300 && code < 400:
		if len(trail) > 1 {
			return status.RedirectedTo(code, trail)
		}
		return status.UnknownCode(code)
	case code == 429:
		return status.Status{Kind: status.KindError, Code: code, ErrorCode: perr.ErrorCodeRejectedStatusCode, Reason: "rate limited"}
	case code >= 500 && code < 600:
		return status.Status{Kind: status.KindError, Code: code, ErrorCode: perr.ErrorCodeRejectedStatusCode, Reason: "server error"}
	case code >= 400 && code < 500:
		return status.Status{Kind: status.KindError, Code: code, ErrorCode: perr.ErrorCodeRejectedStatusCode, Reason: "rejected status code"}
	default:
		return status.UnknownCode(code)
	}
}

func githubRefOf(req *http.Request) (uri.GitHubRef, bool) {
	u, err := uri.Parse(req.URL.String(), nil)
	if err != nil {
		return uri.GitHubRef{}, false
	}
	return u.IsGitHub()
}

func applyGitHubFallback(ctx context.Context, probe *github.Probe, hasToken bool, ref uri.GitHubRef, fallback status.Status) status.Status {
	if !hasToken && fallback.Code == http.StatusForbidden {
		return status.Status{
			Kind:      status.KindError,
			Code:      fallback.Code,
			ErrorCode: perr.ErrorCodeRejectedStatusCode,
			Reason:    "configure a GitHub token",
		}
	}

	code, hint, err := probe.Resolve(ctx, ref.Owner+"/"+ref.Repo, ref.Endpoint)
	if err != nil {
		if hint != "" {
			return status.Status{Kind: status.KindError, Code: code, ErrorCode: perr.ErrorCodeRejectedStatusCode, Reason: hint}
		}
		return fallback
	}
	if code >= 200 && code < 300 {
		return status.Ok(code)
	}
	reason := "rejected status code"
	if hint != "" {
		reason = hint
	}
	return status.Status{Kind: status.KindError, Code: code, ErrorCode: perr.ErrorCodeRejectedStatusCode, Reason: reason}
}
