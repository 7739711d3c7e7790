package website

import (
	"net/http"
	"strconv"
	"time"
)

// parseRetryAfter extracts the minimum spacing a server is asking for
// from a response's Retry-After or RateLimit-Reset headers, mirroring
// the header-parsing shape in internal/adapters/github/util.go. Zero
// means neither header asked for extra spacing.
func parseRetryAfter(h http.Header, now time.Time) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
		if t, err := http.ParseTime(v); err == nil {
			if d := t.Sub(now); d > 0 {
				return d
			}
		}
	}
	if v := h.Get("RateLimit-Reset"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			reset := time.Unix(int64(secs), 0).UTC()
			if d := reset.Sub(now); d > 0 {
				return d
			}
		}
	}
	return 0
}
