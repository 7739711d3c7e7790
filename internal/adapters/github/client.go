// Package github implements the GitHub REST v3 fallback probe used when a
// plain HTTP request against a github.com URI comes back non-2xx
package github

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	perr "ricochet/internal/platform/errors"
	"ricochet/internal/platform/logger"
)

const (
	baseURLDefault   = "https://api.github.com"
	defaultTimeout   = 10 * time.Second
	defaultUA        = "ricochet-linkcheck"
	defaultMaxRetry  = 3
	defaultRetryBase = 500 * time.Millisecond
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Token is the optional GitHub personal access token. Empty means
	// unauthenticated, very low quota, and a 403 with no token present is
	// reported to the user layer as "configure a GitHub token"
	Token string

	// Retry config for transient and rate-limited responses
	MaxRetries int
	RetryBase  time.Duration
}

// Client is a minimal GitHub REST client used purely as a fallback probe
// after the website checker's plain HTTP request fails
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(time.Duration)
	state tokenState
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("github"),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// HasToken reports whether this client is authenticated
func (c *Client) HasToken() bool { return strings.TrimSpace(c.opts.Token) != "" }

// Do issues a GET request with auth headers, retries, and rate-limit handling.
// etagIn is optional and adds If-None-Match for conditional requests
func (c *Client) Do(ctx context.Context, path string, etagIn string) (*http.Response, error) {
	url := c.opts.BaseURL + path
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeNetworkRequest, "github new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "application/vnd.github+json")
		if etagIn != "" {
			req.Header.Set("If-None-Match", etagIn)
		}
		if c.HasToken() {
			req.Header.Set("Authorization", "token "+c.opts.Token)
		}

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if !c.shouldRetry(attempts) {
				return nil, perr.Wrapf(err, perr.ErrorCodeNetworkRequest, "github request failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("github transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		rem, reset, retryAfter := parseRateHeaders(resp.Header)
		if rem >= 0 {
			c.state = tokenState{remaining: rem, reset: reset}
		}
		c.log.Debug().
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Int("rate_remaining", rem).
			Time("rate_reset", reset).
			Msg("github http response")

		switch resp.StatusCode {
		case http.StatusOK, http.StatusNotModified:
			return resp, nil

		case http.StatusTooManyRequests, http.StatusForbidden:
			if !c.HasToken() {
				body := readSmall(resp.Body)
				_ = resp.Body.Close()
				return nil, &StatusError{
					Status: resp.StatusCode,
					Body:   body,
					Hint:   "configure a GitHub token",
					Err:    perr.Newf(perr.ErrorCodeRejectedStatusCode, "github rate limited (unauthenticated)"),
				}
			}
			wait := computeWait(rem, reset, retryAfter, c.now())
			if wait <= 0 {
				wait = c.backoff(attempts)
			}
			if !c.shouldRetry(attempts) {
				body := readSmall(resp.Body)
				_ = resp.Body.Close()
				return nil, &StatusError{
					Status: resp.StatusCode,
					Body:   body,
					Err:    perr.Newf(perr.ErrorCodeRejectedStatusCode, "github rate limited"),
				}
			}
			c.log.Warn().Dur("sleep", wait).Msg("github rate limited backing off")
			_ = drainAndClose(resp.Body)
			c.sleep(wait)
			attempts++
			continue

		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			if !c.shouldRetry(attempts) {
				body := readSmall(resp.Body)
				_ = resp.Body.Close()
				return nil, &StatusError{
					Status: resp.StatusCode,
					Body:   body,
					Err:    perr.Newf(perr.ErrorCodeRejectedStatusCode, "github transient server error"),
				}
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("github transient error retrying")
			_ = drainAndClose(resp.Body)
			c.sleep(back)
			attempts++
			continue

		default:
			body := readSmall(resp.Body)
			_ = resp.Body.Close()
			return nil, &StatusError{
				Status: resp.StatusCode,
				Body:   body,
				Err:    perr.Newf(perr.ErrorCodeRejectedStatusCode, "github unexpected status %d", resp.StatusCode),
			}
		}
	}
}

func readSmall(rc io.ReadCloser) string {
	b, _ := io.ReadAll(io.LimitReader(rc, 2048))
	s := strings.TrimSpace(string(b))
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase
	ms := int64(d / time.Millisecond)
	ms = ms << uint(attempt)
	max := int64(30 * time.Second / time.Millisecond)
	if ms > max {
		ms = max
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}
