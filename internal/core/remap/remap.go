// Package remap implements URI rewriting: an ordered list of
// regex-to-target rules applied before filtering and cache lookup
package remap

import (
	"regexp"

	"ricochet/internal/core/uri"
	perr "ricochet/internal/platform/errors"
)

// Rule is one configured rewrite: any URI string matching Pattern is
// replaced with Target
type Rule struct {
	Pattern string
	Target  string
}

type compiledRule struct {
	pattern *regexp.Regexp
	target  *uri.URI
}

// Remapper holds the compiled, ordered rule list. Immutable after New.
type Remapper struct {
	rules []compiledRule
}

// New compiles rules in the given order. A malformed regex or an
// unparseable target URL is a configuration error, surfaced at startup
// rather than per request.
func New(rules []Rule) (*Remapper, error) {
	r := &Remapper{rules: make([]compiledRule, 0, len(rules))}
	for _, rule := range rules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeInvalidURLRemap, "compile remap pattern %q", rule.Pattern)
		}
		target, err := uri.Parse(rule.Target, nil)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeInvalidURLRemap, "parse remap target %q", rule.Target)
		}
		r.rules = append(r.rules, compiledRule{pattern: re, target: &target})
	}
	return r, nil
}

// IsEmpty reports whether this Remapper has no rules configured
func (r *Remapper) IsEmpty() bool { return len(r.rules) == 0 }

// Remap applies every matching rule in order, so the last matching rule
// wins when multiple rules match the same input
func (r *Remapper) Remap(u uri.URI) uri.URI {
	s := u.String()
	result := u
	for _, rule := range r.rules {
		if rule.pattern.MatchString(s) {
			result = *rule.target
		}
	}
	return result
}
