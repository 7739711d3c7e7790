package extract

import (
	"regexp"

	"ricochet/internal/core/textnorm"
	"ricochet/internal/request"
)

// markdownLinkRe matches both [text](dest) links and ![alt](dest) images;
// group 1 is "!" for images, empty for links, group 2 is the destination
var markdownLinkRe = regexp.MustCompile(`(!?)\[[^\]]*\]\(\s*([^)\s]+)(?:\s+"[^"]*")?\s*\)`)

// markdownAutolinkRe matches the `<https://...>` and `<mailto:...>` autolink form
var markdownAutolinkRe = regexp.MustCompile(`<((?:https?|mailto):[^>\s]+)>`)

// Markdown runs a lightweight streaming scan over Markdown source,
// emitting link and image destinations. References inside fenced or
// inline code (and blockquotes) are skipped unless includeVerbatim is
// set; those regions are found by textnorm.DetectZones.
func Markdown(text string, includeVerbatim bool) []request.RawUri {
	norm := textnorm.NFC(text)
	lt := newLineTable(norm)
	zones := textnorm.DetectZones(norm)

	var out []request.RawUri

	for _, loc := range markdownLinkRe.FindAllStringSubmatchIndex(norm, -1) {
		destStart, destEnd := loc[4], loc[5]
		if !includeVerbatim && inVerbatimZone(zones, loc[0]) {
			continue
		}
		elem, attr := "a", "href"
		if norm[loc[2]:loc[3]] == "!" {
			elem, attr = "img", "src"
		}
		out = append(out, request.RawUri{
			Text:          norm[destStart:destEnd],
			ElementName:   elem,
			AttributeName: attr,
			Span:          lt.spanAt(destStart),
		})
	}

	for _, loc := range markdownAutolinkRe.FindAllStringSubmatchIndex(norm, -1) {
		if !includeVerbatim && inVerbatimZone(zones, loc[0]) {
			continue
		}
		destStart, destEnd := loc[2], loc[3]
		out = append(out, request.RawUri{
			Text:          norm[destStart:destEnd],
			ElementName:   "a",
			AttributeName: "href",
			Span:          lt.spanAt(destStart),
		})
	}

	for _, z := range htmlBlockSpans(norm) {
		lineOffset := lt.spanAt(z.start).Line - 1
		for _, raw := range HTML(norm[z.start:z.end], includeVerbatim) {
			raw.Span.Line += lineOffset
			out = append(out, raw)
		}
	}

	return out
}

func inVerbatimZone(zones []textnorm.ZoneSpan, pos int) bool {
	for _, z := range zones {
		if pos >= z.Start && pos < z.End {
			return true
		}
	}
	return false
}

type htmlBlockSpan struct{ start, end int }

// htmlBlockSpans finds raw HTML block regions embedded in Markdown (a
// line beginning with '<' starting an HTML tag), re-entering them into
// the HTML extractor per §4.9's "HTML events are re-entered" rule
var htmlBlockStartRe = regexp.MustCompile(`(?m)^<[a-zA-Z][^>]*>`)

func htmlBlockSpans(norm string) []htmlBlockSpan {
	var out []htmlBlockSpan
	for _, loc := range htmlBlockStartRe.FindAllStringIndex(norm, -1) {
		end := loc[0]
		for end < len(norm) && norm[end] != '\n' {
			end++
		}
		// extend through the immediately following non-blank lines, whatever
		// they contain, stopping at the first blank line
		for end < len(norm) {
			nextEnd := end + 1
			for nextEnd < len(norm) && norm[nextEnd] != '\n' {
				nextEnd++
			}
			line := norm[end+1 : nextEnd]
			if len(line) == 0 {
				break
			}
			end = nextEnd
		}
		out = append(out, htmlBlockSpan{start: loc[0], end: end})
	}
	return out
}

