package github

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	perrs "ricochet/internal/platform/errors"
)

// StatusError wraps a non-2xx/non-304 HTTP response from GitHub
type StatusError struct {
	Status int
	Body   string
	// Hint is a short operator-facing suggestion (e.g. "configure a GitHub token")
	Hint string
	Err  error
}

// Error implements the error interface
func (e *StatusError) Error() string { return e.Err.Error() }

// Unwrap interface
func (e *StatusError) Unwrap() error { return e.Err }

func asStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// perr wraps a read/decode failure as a platform error
func perr(err error) error {
	return perrs.Wrapf(err, perrs.ErrorCodeReadResponseBody, "github response decode failed")
}

// tokenState tracks the last observed rate-limit window
type tokenState struct {
	remaining int
	reset     time.Time
}

func parseRateHeaders(h http.Header) (remaining int, reset time.Time, retryAfter int) {
	remaining = atoi(h.Get("X-RateLimit-Remaining"))
	rs := h.Get("X-RateLimit-Reset")
	if rs != "" {
		sec := atoi(rs)
		if sec > 0 {
			reset = time.Unix(int64(sec), 0).UTC()
		}
	}
	retryAfter = atoi(h.Get("Retry-After"))
	return
}

// computeWait decides how long to wait based on headers
func computeWait(remaining int, reset time.Time, retryAfter int, now time.Time) time.Duration {
	if retryAfter > 0 {
		return time.Duration(retryAfter) * time.Second
	}
	if remaining <= 0 && !reset.IsZero() {
		if reset.After(now) {
			return reset.Sub(now)
		}
		return 0
	}
	return 0
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	i, _ := strconv.Atoi(s)
	return i
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}

// IsNotFound reports whether err is a StatusError with a 404 status
func IsNotFound(err error) bool {
	se, ok := asStatusError(err)
	return ok && se.Status == http.StatusNotFound
}

// IsRateLimited reports whether err is a StatusError with 429 or 403 status
func IsRateLimited(err error) bool {
	se, ok := asStatusError(err)
	return ok && (se.Status == 429 || se.Status == 403)
}
