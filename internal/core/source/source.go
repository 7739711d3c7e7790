// Package source models where an input came from: what the caller gave
// the checker (InputSource) and what the input resolver turned it into
// (ResolvedInputSource)
package source

import "fmt"

// Kind discriminates the tagged union of input origins
type Kind uint8

const (
	// KindRemoteURL is a URL the checker itself fetches
	KindRemoteURL Kind = iota
	// KindFSPath is a local filesystem path, file or directory
	KindFSPath
	// KindGlob is a glob pattern expanding to one or more filesystem paths
	KindGlob
	// KindStdin is the process's standard input stream
	KindStdin
	// KindString is an inline string provided directly (e.g. via --dump-inputs testing or piping)
	KindString
)

// InputSource is what the caller supplied, before resolution
type InputSource struct {
	Kind Kind

	// RemoteURL is set when Kind == KindRemoteURL
	RemoteURL string
	// Path is set when Kind == KindFSPath or KindGlob (the pattern itself)
	Path string
	// Inline is set when Kind == KindString
	Inline string
}

// String renders a human-readable label for logs and the report sink
func (s InputSource) String() string {
	switch s.Kind {
	case KindRemoteURL:
		return s.RemoteURL
	case KindFSPath:
		return s.Path
	case KindGlob:
		return s.Path
	case KindStdin:
		return "<stdin>"
	case KindString:
		return "<inline>"
	default:
		return "<unknown>"
	}
}

// ResolvedInputSource is what the input resolver produced: a remote URL
// fetched directly, a filesystem path (optionally tagged with the glob
// pattern that discovered it), stdin, or an inline string
type ResolvedInputSource struct {
	Kind Kind

	RemoteURL string
	FSPath    string
	// FromGlob is set when FSPath was discovered by expanding a glob pattern
	FromGlob string
	Inline   string
}

// String renders a human-readable label, matching InputSource.String for
// the common cases and adding the originating glob when present
func (r ResolvedInputSource) String() string {
	switch r.Kind {
	case KindRemoteURL:
		return r.RemoteURL
	case KindFSPath:
		if r.FromGlob != "" {
			return fmt.Sprintf("%s (via %s)", r.FSPath, r.FromGlob)
		}
		return r.FSPath
	case KindStdin:
		return "<stdin>"
	case KindString:
		return "<inline>"
	default:
		return "<unknown>"
	}
}

// ContentKind identifies how InputContent should be parsed
type ContentKind uint8

const (
	// ContentUnknown could not be determined
	ContentUnknown ContentKind = iota
	// ContentHTML is an HTML document
	ContentHTML
	// ContentMarkdown is a Markdown document
	ContentMarkdown
	// ContentPlaintext is unstructured text
	ContentPlaintext
)

// InputContent is the lazily-read, UTF-8-validated body of one input,
// tagged with its detected file type
type InputContent struct {
	Source ResolvedInputSource
	Type   ContentKind
	Text   string
}
