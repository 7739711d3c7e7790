package extract

import (
	"strings"

	"golang.org/x/net/html"

	"ricochet/internal/request"
)

// linkAttrs maps an element name to the attribute this extractor treats
// as a link destination on that element
var linkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"img":    "src",
	"script": "src",
	"iframe": "src",
	"object": "data",
	"video":  "poster",
	"source": "src",
}

// srcsetAttrs names elements whose srcset attribute needs the
// comma-aware candidate parser rather than a plain attribute read
var srcsetAttrs = map[string]bool{"source": true, "img": true}

// verbatimElements are skipped entirely (content not scanned) unless
// includeVerbatim is set
var verbatimElements = map[string]bool{
	"code": true, "kbd": true, "listing": true, "noscript": true,
	"plaintext": true, "pre": true, "samp": true, "script": true,
	"textarea": true, "var": true, "xmp": true,
}

// HTML runs the streaming tokenizer over markup and emits RawUri for
// every recognized link-bearing attribute, skipping the content of
// verbatim elements unless includeVerbatim is set. script/src is still
// emitted even though <script> content itself is skipped.
func HTML(doc string, includeVerbatim bool) []request.RawUri {
	lt := newLineTable(doc)
	z := html.NewTokenizer(strings.NewReader(doc))

	var out []request.RawUri
	offset := 0
	skipDepth := 0
	var skipElement string

	for {
		tt := z.Next()
		raw := z.Raw()
		tokenStart := offset
		offset += len(raw)

		switch tt {
		case html.ErrorToken:
			return out

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			name := tok.Data

			if skipDepth > 0 {
				if !includeVerbatim && name == skipElement && tt == html.StartTagToken {
					skipDepth++
				}
				continue
			}

			emitAttrs(&out, lt, tokenStart, name, tok)

			if !includeVerbatim && verbatimElements[name] && tt == html.StartTagToken {
				skipDepth = 1
				skipElement = name
			}

		case html.EndTagToken:
			tok := z.Token()
			if skipDepth > 0 && tok.Data == skipElement {
				skipDepth--
			}
		}
	}
}

// emitAttrs emits the element's plain destination attribute (from
// linkAttrs) and, for img/source, parses its srcset attribute into
// individual candidate URLs
func emitAttrs(out *[]request.RawUri, lt *lineTable, tokenStart int, elem string, tok html.Token) {
	destAttr := linkAttrs[elem]
	span := lt.spanAt(tokenStart)

	for _, a := range tok.Attr {
		switch {
		case a.Key == destAttr && a.Val != "":
			*out = append(*out, request.RawUri{
				Text: a.Val, ElementName: elem, AttributeName: a.Key, Span: span,
			})
		case srcsetAttrs[elem] && a.Key == "srcset":
			for _, cand := range parseSrcset(a.Val) {
				*out = append(*out, request.RawUri{
					Text: cand, ElementName: elem, AttributeName: "srcset", Span: span,
				})
			}
		}
	}
}
