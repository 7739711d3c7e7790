package hostpool

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config is the per-host admission and transport configuration
type Config struct {
	Concurrency        int
	Interval           time.Duration // effective_request_interval: 1 token per Interval, capacity 1
	Headers            map[string]string
	MaxRedirects       int
	Timeout            time.Duration
	InsecureSkipVerify bool
	MinTLSVersion      uint16
}

func (c Config) withDefaults() Config {
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.Interval <= 0 {
		c.Interval = 100 * time.Millisecond
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = 10
	}
	if c.Timeout <= 0 {
		c.Timeout = 20 * time.Second
	}
	return c
}

// Host is the per-hostname admission gate and transport: a semaphore of
// width Concurrency, a strict-spacing rate limiter, and a shared
// *http.Client. Only one Host exists per HostKey per process.
type Host struct {
	key    string
	cfg    Config
	sem    chan struct{}
	limit  *rate.Limiter
	client *http.Client
	Stats  HostStats

	mu             sync.Mutex
	pendingSpacing time.Duration
}

func newHost(key string, cfg Config) *Host {
	cfg = cfg.withDefaults()
	h := &Host{
		key:   key,
		cfg:   cfg,
		sem:   make(chan struct{}, cfg.Concurrency),
		limit: rate.NewLimiter(rate.Every(cfg.Interval), 1),
	}
	h.client = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
				MinVersion:         cfg.MinTLSVersion,
			},
		},
		CheckRedirect: newRedirectPolicy(cfg.MaxRedirects),
	}
	return h
}

// Client returns the shared *http.Client for this host, to be used by
// the terminal website-checker handler
func (h *Host) Client() *http.Client { return h.client }

// Admit blocks until a concurrency slot and a rate-limit token are both
// available, applying any pending extra spacing requested by a prior
// Retry-After/RateLimit-Reset response. Cancelling ctx while queued for
// a slot, waiting for a token or waiting out the extra spacing returns
// ctx.Err() as an error; it is never turned into an Excluded result.
func (h *Host) Admit(ctx context.Context) (release func(), err error) {
	select {
	case h.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	release = func() { <-h.sem }

	if err := h.limit.Wait(ctx); err != nil {
		release()
		return nil, err
	}

	h.mu.Lock()
	spacing := h.pendingSpacing
	h.pendingSpacing = 0
	h.mu.Unlock()
	if spacing > 0 {
		t := time.NewTimer(spacing)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			release()
			return nil, ctx.Err()
		}
	}

	return release, nil
}

// RequestExtraSpacing records a minimum wait for the next admission,
// driven by an observed Retry-After or RateLimit-Reset header. Only the
// largest pending request wins.
func (h *Host) RequestExtraSpacing(d time.Duration) {
	if d <= 0 {
		return
	}
	h.mu.Lock()
	if d > h.pendingSpacing {
		h.pendingSpacing = d
	}
	h.mu.Unlock()
}

// PrepareHeaders applies global < host-config < per-request precedence:
// req's headers (already set by the caller before this call) are never
// overwritten; host-config headers fill anything still unset; global
// headers fill whatever remains
func (h *Host) PrepareHeaders(req *http.Request, global map[string]string) {
	applyIfUnset(req.Header, h.cfg.Headers)
	applyIfUnset(req.Header, global)
}

func applyIfUnset(header http.Header, values map[string]string) {
	for k, v := range values {
		if header.Get(k) == "" {
			header.Set(k, v)
		}
	}
}

// newRedirectPolicy enforces the redirect cap and records the trail
// into the request's context-scoped accumulator (see RedirectTrail)
func newRedirectPolicy(maxRedirects int) func(req *http.Request, via []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return errTooManyRedirects{count: len(via)}
		}
		if trail := trailFromContext(req.Context()); trail != nil {
			*trail = append(*trail, req.URL.String())
		}
		return nil
	}
}

type errTooManyRedirects struct{ count int }

func (e errTooManyRedirects) Error() string {
	return "too many redirects (" + strconv.Itoa(e.count) + ")"
}

// IsTooManyRedirects reports whether err was returned by the redirect
// policy installed on a Host's client because the redirect cap was hit
func IsTooManyRedirects(err error) bool {
	var e errTooManyRedirects
	return errors.As(err, &e)
}
