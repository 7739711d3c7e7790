// Package extract dispatches InputContent to a tokenizer by file type and
// yields a stream of RawUri references for the request builder
package extract

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FileType identifies which tokenizer should run over a document
type FileType uint8

const (
	// FileTypePlaintext is the fallback: no markup, run the URL-finder
	FileTypePlaintext FileType = iota
	// FileTypeHTML dispatches to the streaming HTML tokenizer
	FileTypeHTML
	// FileTypeMarkdown dispatches to the streaming Markdown extractor
	FileTypeMarkdown
)

// DetectFileType sniffs content first (MIME detection handles HTML
// reliably even without an extension) and falls back to the path's
// extension, finally plaintext
func DetectFileType(content []byte, path string) FileType {
	if mt := mimetype.Detect(content); mt != nil && mt.Is("text/html") {
		return FileTypeHTML
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return FileTypeHTML
	case ".md", ".markdown", ".mdown", ".mkd":
		return FileTypeMarkdown
	default:
		return FileTypePlaintext
	}
}
