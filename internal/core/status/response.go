package status

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ricochet/internal/core/source"
	perr "ricochet/internal/platform/errors"
)

// Response is the per-request outcome emitted to the report sink
type Response struct {
	URI    string
	Status Status
	Source source.ResolvedInputSource
}

// CacheKind is the subset of Status a cache entry can represent; it
// deliberately drops Redirects/trail detail, which is not worth
// persisting across runs
type CacheKind uint8

const (
	// CacheOk mirrors KindOk/KindRedirected (a resolvable code)
	CacheOk CacheKind = iota
	// CacheError mirrors KindError, optionally with the last-seen code
	CacheError
	// CacheExcluded mirrors KindExcluded
	CacheExcluded
	// CacheUnsupported mirrors KindUnsupported
	CacheUnsupported
)

// CacheValue is the persisted form of a completed check
type CacheValue struct {
	Kind      CacheKind
	Code      int // meaningful for CacheOk and optionally CacheError
	Timestamp time.Time
}

// FromStatus projects a Status into its cacheable form. Returns
// (value, ok) — ok is false for statuses that should never be cached
// (KindCached itself, and KindRequestError which has no single URI)
func FromStatus(s Status, at time.Time) (CacheValue, bool) {
	switch s.Kind {
	case KindOk:
		return CacheValue{Kind: CacheOk, Code: s.Code, Timestamp: at}, true
	case KindRedirected:
		return CacheValue{Kind: CacheOk, Code: s.Code, Timestamp: at}, true
	case KindExcluded:
		return CacheValue{Kind: CacheExcluded, Timestamp: at}, true
	case KindUnsupported:
		return CacheValue{Kind: CacheUnsupported, Timestamp: at}, true
	case KindError:
		return CacheValue{Kind: CacheError, Code: s.Code, Timestamp: at}, true
	default:
		return CacheValue{}, false
	}
}

// ToStatus projects a cached value back into a Status, wrapped as Cached
func (c CacheValue) ToStatus() Status {
	var inner Status
	switch c.Kind {
	case CacheOk:
		inner = Ok(c.Code)
	case CacheExcluded:
		inner = Excluded()
	case CacheUnsupported:
		inner = Unsupported("cached")
	case CacheError:
		inner = Errorf(perr.ErrorCodeRejectedStatusCode, "cached error")
	}
	return Cached(inner)
}

// Marshal renders the status label for column 2 of the cache file:
// "ok:<code>", "error" or "error:<code>", "excluded", "unsupported".
// The timestamp is column 3 and is rendered separately by the cache
// writer, which owns the file's column layout
func (c CacheValue) Marshal() string {
	switch c.Kind {
	case CacheOk:
		return fmt.Sprintf("ok:%d", c.Code)
	case CacheError:
		if c.Code == 0 {
			return "error"
		}
		return fmt.Sprintf("error:%d", c.Code)
	case CacheExcluded:
		return "excluded"
	case CacheUnsupported:
		return "unsupported"
	default:
		return "error"
	}
}

// Unmarshal parses a column-2 status label (as produced by Marshal) plus
// the unix-seconds timestamp from column 3 of a cache file row
func Unmarshal(label string, unixSeconds int64) (CacheValue, error) {
	at := time.Unix(unixSeconds, 0).UTC()
	switch {
	case label == "excluded":
		return CacheValue{Kind: CacheExcluded, Timestamp: at}, nil
	case label == "unsupported":
		return CacheValue{Kind: CacheUnsupported, Timestamp: at}, nil
	case label == "error":
		return CacheValue{Kind: CacheError, Timestamp: at}, nil
	case strings.HasPrefix(label, "ok:"):
		code, err := strconv.Atoi(strings.TrimPrefix(label, "ok:"))
		if err != nil {
			return CacheValue{}, perr.Wrapf(err, perr.ErrorCodeIO, "malformed cache label %q", label)
		}
		return CacheValue{Kind: CacheOk, Code: code, Timestamp: at}, nil
	case strings.HasPrefix(label, "error:"):
		code, err := strconv.Atoi(strings.TrimPrefix(label, "error:"))
		if err != nil {
			return CacheValue{}, perr.Wrapf(err, perr.ErrorCodeIO, "malformed cache label %q", label)
		}
		return CacheValue{Kind: CacheError, Code: code, Timestamp: at}, nil
	default:
		return CacheValue{}, perr.Newf(perr.ErrorCodeIO, "unrecognized cache label %q", label)
	}
}
