package main

import (
	"os"
	"strings"

	"ricochet/internal/core/uri"
	"ricochet/internal/request"
)

// resolveBase turns --base into an explicit base URI: a value containing
// a scheme is parsed directly, otherwise it is treated as a directory
// path and converted to a file:// URL. Empty input means no base.
func resolveBase(base string) (*uri.URI, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return nil, nil
	}

	if strings.Contains(base, "://") {
		u, err := uri.Parse(base, nil)
		if err != nil {
			return nil, err
		}
		return &u, nil
	}

	if info, err := os.Stat(base); err == nil && !info.IsDir() {
		base = base[:len(base)-len(info.Name())]
	}

	fileURL, err := request.PathToFileURL(base)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(fileURL, "/") {
		fileURL += "/"
	}
	u, err := uri.Parse(fileURL, nil)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
