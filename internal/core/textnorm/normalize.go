// Package textnorm provides deterministic Unicode normalization for
// extracted reference text and zone detection over normalized documents
// Pipeline order for NFC:
// 1 UTF-8 repair, drop invalid bytes
// 2 Unicode NFC normalization
// Anything further (case-folding, width-folding, mark stripping) would
// change what a URL resolves to, so it stops there, unlike normalizers
// built for fuzzy text matching
package textnorm

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NFC returns the canonically composed form of s, after repairing
// invalid UTF-8 byte sequences. Used before parsing an extracted URI so
// visually identical but differently-encoded Unicode URLs dedupe as the
// same request
func NFC(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// CollapseSpace converts whitespace runs to a single ASCII space, but
// preserves line breaks: a run containing any newline collapses to a
// single newline. Leading/trailing whitespace is trimmed
func CollapseSpace(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	sawNL := false
	flush := func() {
		if !inWS {
			return
		}
		if sawNL {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
		inWS = false
		sawNL = false
	}
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f' {
			inWS = true
			if r == '\n' || r == '\r' {
				sawNL = true
			}
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return strings.Trim(b.String(), " \n\t\r")
}
