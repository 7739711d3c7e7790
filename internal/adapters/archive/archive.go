// Package archive implements the optional Wayback Machine fallback
// (SPEC_FULL.md §10): when a plain request fails, consult the Internet
// Archive's availability API before reporting the link broken
package archive

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"ricochet/internal/core/status"
)

const (
	availabilityURL = "https://archive.org/wayback/available"
	defaultTimeout  = 10 * time.Second
	defaultUA       = "ricochet-linkcheck"
)

// Config tunes the fallback probe
type Config struct {
	Enabled   bool
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Probe queries the Wayback availability API for a snapshot of a URL
// that otherwise failed a direct check
type Probe struct {
	client  *http.Client
	baseURL string
	ua      string
	enabled bool
}

// NewProbe builds a Probe from Config
func NewProbe(cfg Config) *Probe {
	base := cfg.BaseURL
	if base == "" {
		base = availabilityURL
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUA
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Probe{
		client:  &http.Client{Timeout: timeout},
		baseURL: base,
		ua:      ua,
		enabled: cfg.Enabled,
	}
}

// Enabled reports whether the fallback is configured on
func (p *Probe) Enabled() bool { return p.enabled }

type availabilityResponse struct {
	URL               string `json:"url"`
	ArchivedSnapshots struct {
		Closest struct {
			Available bool   `json:"available"`
			URL       string `json:"url"`
			Status    string `json:"status"`
		} `json:"closest"`
	} `json:"archived_snapshots"`
}

// Resolve looks up the nearest Wayback Machine snapshot of target. When
// a snapshot exists it is reported Ok, tagged with the snapshot URL as
// the reason so the report can surface the archived copy; otherwise it
// returns the original failing status unchanged
func (p *Probe) Resolve(ctx context.Context, target string, fallback status.Status) status.Status {
	if !p.enabled {
		return fallback
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?url="+url.QueryEscape(target), nil)
	if err != nil {
		return fallback
	}
	req.Header.Set("User-Agent", p.ua)

	resp, err := p.client.Do(req)
	if err != nil {
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fallback
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fallback
	}

	var parsed availabilityResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fallback
	}

	snap := parsed.ArchivedSnapshots.Closest
	if !snap.Available || snap.URL == "" {
		return fallback
	}
	return status.Status{
		Kind:   status.KindOk,
		Code:   200,
		Reason: "available via Wayback Machine: " + snap.URL,
	}
}
