package collector

import (
	"path/filepath"

	"ricochet/internal/core/source"
)

// ResolveInputs expands every caller-supplied InputSource (globs included)
// without reading any content, for callers that only need the resolved
// input list (e.g. --dump-inputs)
func ResolveInputs(inputs []source.InputSource) ([]source.ResolvedInputSource, error) {
	var out []source.ResolvedInputSource
	for _, in := range inputs {
		resolved, err := resolveInput(in)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved...)
	}
	return out, nil
}

// resolveInput expands one caller-supplied InputSource into zero or more
// ResolvedInputSource values: a glob expands to every matching path, the
// remaining kinds resolve one-to-one
func resolveInput(in source.InputSource) ([]source.ResolvedInputSource, error) {
	switch in.Kind {
	case source.KindRemoteURL:
		return []source.ResolvedInputSource{{Kind: source.KindRemoteURL, RemoteURL: in.RemoteURL}}, nil

	case source.KindFSPath:
		return []source.ResolvedInputSource{{Kind: source.KindFSPath, FSPath: in.Path}}, nil

	case source.KindGlob:
		matches, err := filepath.Glob(in.Path)
		if err != nil {
			return nil, err
		}
		out := make([]source.ResolvedInputSource, 0, len(matches))
		for _, m := range matches {
			out = append(out, source.ResolvedInputSource{Kind: source.KindFSPath, FSPath: m, FromGlob: in.Path})
		}
		return out, nil

	case source.KindStdin:
		return []source.ResolvedInputSource{{Kind: source.KindStdin}}, nil

	case source.KindString:
		return []source.ResolvedInputSource{{Kind: source.KindString, Inline: in.Inline}}, nil

	default:
		return nil, nil
	}
}
