// Package request implements the Request data model and the resolution
// algorithm that turns an extractor's raw reference text into a
// dispatchable, deduplicated Request
package request

import (
	"ricochet/internal/core/source"
	"ricochet/internal/core/uri"
)

// Span locates a RawUri within its source content
type Span struct {
	Line   int
	Column int // 0 when unknown
}

// RawUri is the unresolved reference text an extractor emits, tagged
// with where it came from in the document
type RawUri struct {
	Text          string
	ElementName   string
	AttributeName string
	Span          Span
}

// Request is a fully resolved, dispatchable reference. Two requests
// are equal when their Key matches — that is the deduplication
// criterion spec.md names.
type Request struct {
	URI       uri.URI
	Source    source.ResolvedInputSource
	Attribute string
}

// Key is the deduplication identity: identical (uri, source, attribute)
// requests are merged by the collector before reaching the runner
func (r Request) Key() string {
	return r.URI.String() + "\x00" + r.Source.String() + "\x00" + r.Attribute
}
