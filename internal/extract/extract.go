package extract

import "ricochet/internal/request"

// Options tunes extraction behavior shared across file types
type Options struct {
	IncludeVerbatim bool
	IncludeMail     bool
}

// Extract dispatches content to the tokenizer matching its detected
// file type and returns every reference found
func Extract(content []byte, path string, opts Options) []request.RawUri {
	text := string(content)
	switch DetectFileType(content, path) {
	case FileTypeHTML:
		return HTML(text, opts.IncludeVerbatim)
	case FileTypeMarkdown:
		return Markdown(text, opts.IncludeVerbatim)
	default:
		return Plaintext(text, opts.IncludeMail)
	}
}
