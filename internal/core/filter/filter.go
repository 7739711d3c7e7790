// Package filter implements the include/exclude policy consulted by the
// runner before a Request is dispatched to a checker: regex include/
// exclude sets, IP-range predicates, a scheme whitelist, and gitignore-
// style path excludes for local input selection
package filter

import (
	"net"
	"path/filepath"
	"regexp"
	"strings"

	"ricochet/internal/core/status"
	"ricochet/internal/core/uri"

	"github.com/gobwas/glob"
)

// IPPredicates toggles the IP-range classes excluded by host literal
// address. AllPrivate subsumes Private, LinkLocal and Loopback.
type IPPredicates struct {
	AllPrivate bool
	Private    bool
	LinkLocal  bool
	Loopback   bool
}

func (p IPPredicates) any() bool {
	return p.AllPrivate || p.Private || p.LinkLocal || p.Loopback
}

// matches reports whether ip falls into any of the enabled classes
func (p IPPredicates) matches(ip net.IP) bool {
	if !p.any() {
		return false
	}
	if p.Loopback && ip.IsLoopback() {
		return true
	}
	if p.LinkLocal && (ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast()) {
		return true
	}
	if p.Private && ip.IsPrivate() {
		return true
	}
	if p.AllPrivate && (ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast()) {
		return true
	}
	return false
}

// Config is the build-time input to New; it is consumed once and not
// retained by the resulting Filter
type Config struct {
	Include      []string
	Exclude      []string
	IPExcludes   IPPredicates
	ExcludeMail  bool
	Schemes      []string // empty means "no scheme restriction"
	PathExcludes []string // gitignore-style lines, newline-joined or one per entry
	PathRoot     string   // root paths are canonicalized against
}

// Filter is the immutable, built include/exclude policy. Zero value is
// a Filter that excludes nothing and restricts no scheme.
type Filter struct {
	include     []*regexp.Regexp
	exclude     []*regexp.Regexp
	ipExcludes  IPPredicates
	excludeMail bool
	schemes     map[string]bool // nil means unrestricted
	pathGlobs   []glob.Glob
	pathRoot    string
}

// New compiles a Config into an immutable Filter. Invalid regexes or
// glob patterns are reported as configuration errors, not per-request
// errors, since they can only ever come from startup flags/files.
func New(c Config) (*Filter, error) {
	f := &Filter{
		ipExcludes:  c.IPExcludes,
		excludeMail: c.ExcludeMail,
		pathRoot:    c.PathRoot,
	}

	for _, pat := range c.Include {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, badPattern("include", pat, err)
		}
		f.include = append(f.include, re)
	}
	for _, pat := range c.Exclude {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, badPattern("exclude", pat, err)
		}
		f.exclude = append(f.exclude, re)
	}
	if len(c.Schemes) > 0 {
		f.schemes = make(map[string]bool, len(c.Schemes))
		for _, s := range c.Schemes {
			f.schemes[strings.ToLower(s)] = true
		}
	}
	var lines []string
	for _, entry := range c.PathExcludes {
		lines = append(lines, strings.Split(entry, "\n")...)
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		g, err := glob.Compile(line, '/')
		if err != nil {
			return nil, badPattern("path exclude", line, err)
		}
		f.pathGlobs = append(f.pathGlobs, g)
	}

	return f, nil
}

// IsEmpty reports whether this Filter has no configured rules at all —
// it excludes nothing and restricts no scheme
func (f *Filter) IsEmpty() bool {
	return len(f.include) == 0 && len(f.exclude) == 0 && !f.ipExcludes.any() &&
		!f.excludeMail && f.schemes == nil && len(f.pathGlobs) == 0
}

// IsMailExcluded reports whether mailto: references are excluded outright
func (f *Filter) IsMailExcluded() bool { return f.excludeMail }

// IsExcluded applies the full exclusion policy to a resolved URI and
// returns either (false, zero Status) when the reference should be
// checked, or (true, Status) carrying the reason (Excluded or
// Unsupported for a scheme rejection)
func (f *Filter) IsExcluded(u uri.URI) (bool, status.Status) {
	s := u.String()

	if f.matchesAny(f.include, s) {
		return false, status.Status{}
	}

	if f.schemes != nil && !f.schemes[u.Scheme()] {
		return true, status.Unsupported("scheme not in allowlist")
	}

	if u.IsMail() && f.excludeMail {
		return true, status.Excluded()
	}

	if f.ipExcludes.any() {
		if ip, ok := u.HostIP(); ok && f.ipExcludes.matches(ip) {
			return true, status.Excluded()
		}
	}

	if f.matchesAny(f.exclude, s) {
		return true, status.Excluded()
	}

	return false, status.Status{}
}

// IsPathExcluded reports whether a local filesystem path (used during
// input selection, not request checking) matches a configured gitignore-
// style line. Both the pattern root and the candidate path are
// canonicalized to slash-separated, root-relative form before matching;
// this is a partial approximation of gitignore semantics — no negation
// patterns, no directory-only anchoring, no nested-gitignore discovery
func (f *Filter) IsPathExcluded(path string) bool {
	if len(f.pathGlobs) == 0 {
		return false
	}
	rel := path
	if f.pathRoot != "" {
		if r, err := filepath.Rel(f.pathRoot, path); err == nil {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)
	for _, g := range f.pathGlobs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

func (f *Filter) matchesAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func badPattern(kind, pat string, err error) error {
	return configError{kind: kind, pattern: pat, err: err}
}

type configError struct {
	kind    string
	pattern string
	err     error
}

func (e configError) Error() string {
	return "filter: invalid " + e.kind + " pattern " + e.pattern + ": " + e.err.Error()
}

func (e configError) Unwrap() error { return e.err }
