package extract

import (
	"regexp"

	"ricochet/internal/request"
)

// knownTLDs is a small, common-case allowlist; the plaintext finder only
// emits a match whose host ends in one of these so that something like
// "e.g." or "v1.2.3" in prose is not mistaken for a URL host
var knownTLDs = []string{
	"com", "org", "net", "io", "dev", "gov", "edu", "co", "info", "biz",
	"app", "sh", "ai", "uk", "de", "fr", "ca", "au", "us", "me", "tv",
}

var urlRe = regexp.MustCompile(`\bhttps?://[^\s<>"'\x60]+`)
var emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)

// Plaintext runs the URL-finder (and, when includeMail is set, a raw
// email-literal finder) over unstructured text
func Plaintext(text string, includeMail bool) []request.RawUri {
	lt := newLineTable(text)
	var out []request.RawUri

	for _, loc := range urlRe.FindAllStringIndex(text, -1) {
		candidate := text[loc[0]:loc[1]]
		if !hostHasKnownTLD(candidate) {
			continue
		}
		out = append(out, request.RawUri{
			Text:          candidate,
			ElementName:   "text",
			AttributeName: "",
			Span:          lt.spanAt(loc[0]),
		})
	}

	if includeMail {
		for _, loc := range emailRe.FindAllStringIndex(text, -1) {
			out = append(out, request.RawUri{
				Text:          "mailto:" + text[loc[0]:loc[1]],
				ElementName:   "text",
				AttributeName: "",
				Span:          lt.spanAt(loc[0]),
			})
		}
	}

	return out
}

func hostHasKnownTLD(rawURL string) bool {
	host := hostOf(rawURL)
	for _, tld := range knownTLDs {
		if len(host) > len(tld)+1 && host[len(host)-len(tld)-1] == '.' && host[len(host)-len(tld):] == tld {
			return true
		}
	}
	return false
}

func hostOf(rawURL string) string {
	rest := rawURL
	if i := indexAfterScheme(rest); i >= 0 {
		rest = rest[i:]
	}
	end := len(rest)
	for i, c := range rest {
		switch c {
		case '/', '?', '#', ':':
			if i < end {
				end = i
			}
		}
	}
	return rest[:end]
}

func indexAfterScheme(s string) int {
	for i := 0; i+2 < len(s); i++ {
		if s[i] == ':' && s[i+1] == '/' && s[i+2] == '/' {
			return i + 3
		}
	}
	return -1
}
