// Package status defines the terminal outcome of a checked request and
// the small set of value types carried alongside it through the report
package status

import (
	"fmt"
	"time"

	perr "ricochet/internal/platform/errors"
)

// Kind identifies which Status variant is populated. Status is a closed
// sum type represented as a struct with a discriminant instead of an
// interface, so the handler chain and report sink can switch on it
// without an allocation or a type assertion
type Kind uint8

const (
	// KindOk is a successful response in the accepted status-code set
	KindOk Kind = iota
	// KindRedirected is a successful response reached via one or more redirects
	KindRedirected
	// KindUnknownStatusCode is a status code the HTTP library could not categorize
	KindUnknownStatusCode
	// KindTimeout is a request that exceeded its deadline
	KindTimeout
	// KindExcluded is a request the filter rejected before any network activity
	KindExcluded
	// KindUnsupported is a request whose scheme or shape this checker does not handle
	KindUnsupported
	// KindCached is a status served from the persistent cache
	KindCached
	// KindError is a terminal per-request failure
	KindError
	// KindRequestError is a failure during input resolution, carrying a synthetic "error:" URI
	KindRequestError
)

// String renders a Kind for logs and the report sink
func (k Kind) String() string {
	switch k {
	case KindOk:
		return "ok"
	case KindRedirected:
		return "redirected"
	case KindUnknownStatusCode:
		return "unknown_status"
	case KindTimeout:
		return "timeout"
	case KindExcluded:
		return "excluded"
	case KindUnsupported:
		return "unsupported"
	case KindCached:
		return "cached"
	case KindError:
		return "error"
	case KindRequestError:
		return "request_error"
	default:
		return "unknown"
	}
}

// Redirects is the ordered trail of URLs traversed to reach a final
// response, original first and final last
type Redirects struct {
	Trail []string
}

// Len reports how many hops are recorded
func (r Redirects) Len() int { return len(r.Trail) }

// Status is the terminal outcome of one checked request
type Status struct {
	Kind Kind

	// Code is the HTTP status code, meaningful for KindOk, KindRedirected,
	// KindUnknownStatusCode, and optionally KindTimeout
	Code int

	// Redirects is populated only for KindRedirected
	Redirects Redirects

	// Reason carries the Unsupported explanation, the cached-error detail,
	// or any other free-form context for display
	Reason string

	// ErrorCode carries the classifying error code for KindError/KindRequestError
	ErrorCode perr.ErrorCode

	// At is when this status was determined, used for cache persistence
	At time.Time
}

// IsSuccess reports whether this status counts as a successful check
func (s Status) IsSuccess() bool {
	switch s.Kind {
	case KindOk, KindRedirected, KindCached:
		return true
	default:
		return false
	}
}

// CodeAsString renders the code (or a short label) capped at 8 chars,
// matching the report sink's fixed-width column
func (s Status) CodeAsString() string {
	var out string
	switch s.Kind {
	case KindOk, KindRedirected, KindUnknownStatusCode:
		out = fmt.Sprintf("%d", s.Code)
	case KindTimeout:
		if s.Code > 0 {
			out = fmt.Sprintf("%d", s.Code)
		} else {
			out = "timeout"
		}
	default:
		out = s.Kind.String()
	}
	if len(out) > 8 {
		out = out[:8]
	}
	return out
}

// Ok constructs a successful status
func Ok(code int) Status { return Status{Kind: KindOk, Code: code} }

// RedirectedTo constructs a redirected status with its trail
func RedirectedTo(code int, trail []string) Status {
	return Status{Kind: KindRedirected, Code: code, Redirects: Redirects{Trail: trail}}
}

// UnknownCode constructs a status for a code the HTTP library didn't categorize
func UnknownCode(code int) Status { return Status{Kind: KindUnknownStatusCode, Code: code} }

// TimeoutStatus constructs a timeout status, optionally with the last observed code
func TimeoutStatus(code int) Status { return Status{Kind: KindTimeout, Code: code} }

// Excluded constructs the status for a filtered-out request
func Excluded() Status { return Status{Kind: KindExcluded} }

// Unsupported constructs a status for an unhandled scheme/shape
func Unsupported(reason string) Status { return Status{Kind: KindUnsupported, Reason: reason} }

// Cached constructs a status re-served from the persistent cache
func Cached(inner Status) Status {
	inner.Kind = KindCached
	return inner
}

// Errorf constructs a per-request error status
func Errorf(code perr.ErrorCode, reason string) Status {
	return Status{Kind: KindError, ErrorCode: code, Reason: reason}
}

// RequestErrorf constructs an input-resolution error status (surfaced
// against the synthetic "error:" URI)
func RequestErrorf(code perr.ErrorCode, reason string) Status {
	return Status{Kind: KindRequestError, ErrorCode: code, Reason: reason}
}
