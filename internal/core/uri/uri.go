// Package uri implements the URI model: parsing a reference against an
// optional base, classifying its scheme, and computing the canonical
// host key used to bucket requests into the host pool
package uri

import (
	"net"
	"net/url"
	"strings"

	"ricochet/internal/core/textnorm"
	perr "ricochet/internal/platform/errors"

	"golang.org/x/net/idna"
)

// githubOwnerBlocklist holds path segments that look like an owner but
// are actually github.com top-level routes
var githubOwnerBlocklist = map[string]bool{
	"about": true, "collections": true, "events": true, "explore": true,
	"features": true, "issues": true, "marketplace": true, "new": true,
	"notifications": true, "pricing": true, "pulls": true, "sponsors": true,
	"topics": true, "watching": true,
}

var githubHosts = map[string]bool{
	"github.com":               true,
	"www.github.com":           true,
	"raw.githubusercontent.com": true,
}

// URI is an immutable, always-absolute parsed reference
type URI struct {
	raw *url.URL
	// Fragment is stored separately so Path() can strip it uniformly
	fragment string
}

// Parse builds a URI from text and an optional base. Recognized failures:
// empty text, missing scheme with no base available, or invalid syntax
func Parse(text string, base *URI) (URI, error) {
	text = strings.TrimSpace(textnorm.NFC(text))
	if text == "" {
		return URI{}, perr.Newf(perr.ErrorCodeEmptyURL, "empty reference")
	}

	u, err := url.Parse(text)
	if err != nil {
		return URI{}, perr.Wrapf(err, perr.ErrorCodeInvalidURL, "parse %q", text)
	}

	if !u.IsAbs() {
		if base == nil {
			return URI{}, perr.Newf(perr.ErrorCodeInvalidURL, "relative reference %q with no base", text)
		}
		u = base.raw.ResolveReference(u)
	}

	frag := u.Fragment
	u.Fragment = ""
	u.RawFragment = ""

	return URI{raw: u, fragment: frag}, nil
}

// MustParse is a test/config-loading convenience; panics on error
func MustParse(text string) URI {
	u, err := Parse(text, nil)
	if err != nil {
		panic(err)
	}
	return u
}

// String renders the absolute URL, including the fragment if present
func (u URI) String() string {
	if u.raw == nil {
		return ""
	}
	if u.fragment == "" {
		return u.raw.String()
	}
	c := *u.raw
	c.Fragment = u.fragment
	return c.String()
}

// Scheme returns the lowercase scheme
func (u URI) Scheme() string {
	if u.raw == nil {
		return ""
	}
	return strings.ToLower(u.raw.Scheme)
}

// Host returns the raw (non-canonicalized) hostname, without port
func (u URI) Host() string {
	if u.raw == nil {
		return ""
	}
	return u.raw.Hostname()
}

// Fragment returns the fragment, without the leading '#'
func (u URI) Fragment() string { return u.fragment }

// Path returns the path with fragment (and query) already stripped
func (u URI) Path() string {
	if u.raw == nil {
		return ""
	}
	return u.raw.Path
}

// IsFile reports whether this is a file:// URI
func (u URI) IsFile() bool { return u.Scheme() == "file" }

// IsMail reports whether this is a mailto: URI
func (u URI) IsMail() bool { return u.Scheme() == "mailto" }

// Address returns the address portion of a mailto: URI (the opaque part
// before any "?subject=..." query string), empty for other schemes
func (u URI) Address() string {
	if u.raw == nil {
		return ""
	}
	addr := u.raw.Opaque
	if addr == "" {
		addr = strings.TrimPrefix(u.raw.Path, "/")
	}
	if i := strings.IndexByte(addr, '?'); i >= 0 {
		addr = addr[:i]
	}
	return addr
}

// IsAnchorText reports whether a raw, not-yet-resolved reference is
// fragment-only (e.g. "#sec-2"), checked before Parse requires a base to
// resolve it against. The request builder uses this to special-case
// anchor-only references inside local files (§4.10)
func IsAnchorText(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "#")
}

// HostIP returns the literal IP address this host represents, if the
// hostname itself parses as one (not a DNS lookup)
func (u URI) HostIP() (net.IP, bool) {
	h := u.Host()
	if h == "" {
		return nil, false
	}
	ip := net.ParseIP(h)
	if ip == nil {
		return nil, false
	}
	return ip, true
}

// HostKey returns the canonical, case-folded, punycode-normalized
// hostname with no port — the key into the host pool
func (u URI) HostKey() string {
	h := strings.ToLower(u.Host())
	if h == "" {
		return ""
	}
	if ascii, err := idna.Lookup.ToASCII(h); err == nil {
		return ascii
	}
	return h
}

// GitHubRef is the owner/repo (and optional remaining path, the
// "endpoint") extracted from a GitHub URI recognized by IsGitHub
type GitHubRef struct {
	Owner    string
	Repo     string
	Endpoint string
}

// IsGitHub reports whether this URI addresses a GitHub repository (not
// a user/org page or a reserved top-level route) and returns the parsed
// owner/repo/endpoint
func (u URI) IsGitHub() (GitHubRef, bool) {
	host := strings.ToLower(u.Host())
	if !githubHosts[host] {
		return GitHubRef{}, false
	}
	segments := strings.Split(strings.Trim(u.Path(), "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return GitHubRef{}, false
	}
	owner := segments[0]
	if githubOwnerBlocklist[strings.ToLower(owner)] {
		return GitHubRef{}, false
	}
	repo := strings.TrimSuffix(segments[1], ".git")
	endpoint := ""
	if len(segments) > 2 {
		endpoint = strings.Join(segments[2:], "/")
	}
	return GitHubRef{Owner: owner, Repo: repo, Endpoint: endpoint}, true
}
