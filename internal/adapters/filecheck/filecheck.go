// Package filecheck implements the file:// checker (§4.8): local path
// resolution with fallback extensions, and fragment verification
// against HTML anchors or Markdown heading slugs
package filecheck

import (
	"os"
	"path/filepath"
	"strings"

	"ricochet/internal/core/status"
	"ricochet/internal/core/uri"
	perr "ricochet/internal/platform/errors"
)

// Config tunes file resolution
type Config struct {
	FallbackExtensions []string
	IncludeFragments   bool
}

// Checker resolves file:// URIs against the local filesystem
type Checker struct {
	cfg Config
}

// New builds a Checker
func New(cfg Config) *Checker { return &Checker{cfg: cfg} }

// Check implements the file-checker algorithm: strip the fragment,
// convert to a path, try the path as given and then with each fallback
// extension in order, and on the first hit either return Ok or delegate
// to the fragment checker
func (c *Checker) Check(u uri.URI) status.Status {
	base := uriToPath(u)

	if s, ok := c.checkPath(u, base); ok {
		return s
	}
	for _, ext := range c.cfg.FallbackExtensions {
		candidate := base
		if dot := strings.LastIndex(filepath.Base(base), "."); dot < 0 {
			candidate = base + "." + strings.TrimPrefix(ext, ".")
		} else {
			candidate = strings.TrimSuffix(base, filepath.Ext(base)) + "." + strings.TrimPrefix(ext, ".")
		}
		if s, ok := c.checkPath(u, candidate); ok {
			return s
		}
	}
	return status.Errorf(perr.ErrorCodeInvalidFilePath, "no such file: "+base)
}

func (c *Checker) checkPath(u uri.URI, path string) (status.Status, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return status.Status{}, false
	}
	if c.cfg.IncludeFragments && u.Fragment() != "" {
		return checkFragment(path, u.Fragment()), true
	}
	return status.Ok(200), true
}

func uriToPath(u uri.URI) string {
	p := u.Path()
	if decoded, err := decodePath(p); err == nil {
		p = decoded
	}
	return filepath.FromSlash(p)
}
