package main

import (
	"strings"

	"ricochet/internal/core/source"
)

// classifyInput turns one positional CLI argument into an InputSource:
// "-" is stdin, an http(s) URL is fetched remotely, anything containing
// a glob metacharacter is expanded, everything else is a plain path
func classifyInput(arg string) source.InputSource {
	switch {
	case arg == "-":
		return source.InputSource{Kind: source.KindStdin}
	case strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://"):
		return source.InputSource{Kind: source.KindRemoteURL, RemoteURL: arg}
	case strings.ContainsAny(arg, "*?["):
		return source.InputSource{Kind: source.KindGlob, Path: arg}
	default:
		return source.InputSource{Kind: source.KindFSPath, Path: arg}
	}
}

func classifyInputs(args []string) []source.InputSource {
	out := make([]source.InputSource, 0, len(args))
	for _, a := range args {
		out = append(out, classifyInput(a))
	}
	return out
}
