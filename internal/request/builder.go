package request

import (
	"net/url"
	"path/filepath"
	"strings"

	"ricochet/internal/core/source"
	"ricochet/internal/core/uri"
	perr "ricochet/internal/platform/errors"
)

// Options configures the resolution algorithm (§4.10)
type Options struct {
	// NoScheme, when true, prepends "https://" to reference text that
	// has no scheme at all before attempting an absolute parse
	NoScheme bool
	// ExplicitBase is consulted when a reference has no scheme and its
	// source offers no implicit base (e.g. stdin, an inline string)
	ExplicitBase *uri.URI
	// IncludeFragments controls whether anchor-only references inside a
	// local file are kept (as file://<source>#frag) or dropped
	IncludeFragments bool
}

// Builder resolves RawUri values, extracted relative to one input, into
// dispatchable Request values
type Builder struct {
	opts Options
}

// New returns a Builder configured with the given resolution options
func New(opts Options) *Builder {
	return &Builder{opts: opts}
}

// Resolve implements the five-step base-resolution algorithm plus the
// anchor-only special case. ok is false when the reference was
// legitimately dropped (an anchor-only reference with fragment checking
// disabled), not an error condition.
func (b *Builder) Resolve(raw RawUri, src source.ResolvedInputSource, attribute string) (req Request, ok bool, err error) {
	text := strings.TrimSpace(raw.Text)
	if text == "" {
		return Request{}, false, perr.Newf(perr.ErrorCodeEmptyURL, "empty reference text")
	}

	if uri.IsAnchorText(text) {
		return b.resolveAnchor(text, src)
	}

	if b.opts.NoScheme && !hasScheme(text) {
		text = "https://" + text
	}

	if u, perr2 := uri.Parse(text, nil); perr2 == nil {
		return Request{URI: u, Source: src, Attribute: attribute}, true, nil
	}

	if base, has := implicitBase(src); has {
		if u, joinErr := b.joinAgainstFileOrBase(text, src, base); joinErr == nil {
			return Request{URI: u, Source: src, Attribute: attribute}, true, nil
		}
	}

	if b.opts.ExplicitBase != nil {
		u, joinErr := uri.Parse(text, b.opts.ExplicitBase)
		if joinErr != nil {
			return Request{}, false, joinErr
		}
		return Request{URI: u, Source: src, Attribute: attribute}, true, nil
	}

	return Request{}, false, perr.Newf(perr.ErrorCodeInvalidURL, "cannot resolve %q: no base available", text)
}

func (b *Builder) resolveAnchor(text string, src source.ResolvedInputSource) (Request, bool, error) {
	if !b.opts.IncludeFragments {
		return Request{}, false, nil
	}
	if src.Kind != source.KindFSPath {
		return Request{}, false, nil
	}
	fileURL, err := filePathToURL(src.FSPath)
	if err != nil {
		return Request{}, false, err
	}
	u, err := uri.Parse(fileURL+text, nil)
	if err != nil {
		return Request{}, false, err
	}
	return Request{URI: u}, true, nil
}

// joinAgainstFileOrBase performs step 5's percent-decode/re-encode dance
// for file sources, and a plain URI.Parse join otherwise
func (b *Builder) joinAgainstFileOrBase(text string, src source.ResolvedInputSource, base uri.URI) (uri.URI, error) {
	if src.Kind != source.KindFSPath {
		return uri.Parse(text, &base)
	}

	decoded, err := url.PathUnescape(text)
	if err != nil {
		decoded = text
	}
	parentDir := filepath.Dir(src.FSPath)
	joined := filepath.Join(parentDir, filepath.FromSlash(decoded))
	fileURL, err := filePathToURL(joined)
	if err != nil {
		return uri.URI{}, err
	}
	return uri.Parse(fileURL, nil)
}

// implicitBase computes the base URI a relative reference resolves
// against by virtue of where it was found: a remote document's own URL,
// or a local file's parent directory
func implicitBase(src source.ResolvedInputSource) (uri.URI, bool) {
	switch src.Kind {
	case source.KindRemoteURL:
		u, err := uri.Parse(src.RemoteURL, nil)
		if err != nil {
			return uri.URI{}, false
		}
		return u, true
	case source.KindFSPath:
		dirURL, err := filePathToURL(filepath.Dir(src.FSPath) + string(filepath.Separator))
		if err != nil {
			return uri.URI{}, false
		}
		u, err := uri.Parse(dirURL, nil)
		if err != nil {
			return uri.URI{}, false
		}
		return u, true
	default:
		return uri.URI{}, false
	}
}

// PathToFileURL converts a filesystem path into a file:// URL string,
// exported for callers (the CLI's --base handling) that need the same
// escaping rules outside of reference resolution
func PathToFileURL(p string) (string, error) { return filePathToURL(p) }

// filePathToURL converts an absolute or relative filesystem path into a
// file:// URL, escaping each path segment independently so the result
// round-trips through uri.Parse without double-encoding
func filePathToURL(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeInvalidFilePath, "resolve absolute path for %q", p)
	}
	slashed := filepath.ToSlash(abs)
	segments := strings.Split(slashed, "/")
	for i, seg := range segments {
		segments[i] = (&url.URL{Path: seg}).EscapedPath()
	}
	return "file://" + strings.Join(segments, "/"), nil
}

func hasScheme(text string) bool {
	i := strings.Index(text, ":")
	if i <= 0 {
		return false
	}
	scheme := text[:i]
	for _, r := range scheme {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.') {
			return false
		}
	}
	return true
}
