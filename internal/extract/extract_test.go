package extract

import "testing"

func TestDetectFileTypeByExtension(t *testing.T) {
	if got := DetectFileType([]byte("hello"), "a.md"); got != FileTypeMarkdown {
		t.Fatalf("got %v", got)
	}
	if got := DetectFileType([]byte("hello"), "a.txt"); got != FileTypePlaintext {
		t.Fatalf("got %v", got)
	}
}

func TestDetectFileTypeBySniffing(t *testing.T) {
	doc := []byte("<!DOCTYPE html><html><body>hi</body></html>")
	if got := DetectFileType(doc, "noext"); got != FileTypeHTML {
		t.Fatalf("got %v", got)
	}
}

func TestPlaintextFindsURL(t *testing.T) {
	refs := Plaintext("see https://example.com/page for details", false)
	if len(refs) != 1 || refs[0].Text != "https://example.com/page" {
		t.Fatalf("refs = %+v", refs)
	}
}

func TestPlaintextIgnoresUnknownTLD(t *testing.T) {
	refs := Plaintext("version v1.2.3 released, see http://localhost/x", false)
	if len(refs) != 0 {
		t.Fatalf("refs = %+v, want none (localhost has no known TLD)", refs)
	}
}

func TestPlaintextEmailWhenIncluded(t *testing.T) {
	refs := Plaintext("contact me at a@example.org please", true)
	if len(refs) != 1 || refs[0].Text != "mailto:a@example.org" {
		t.Fatalf("refs = %+v", refs)
	}
}

func TestPlaintextEmailOmittedByDefault(t *testing.T) {
	refs := Plaintext("contact me at a@example.org please", false)
	if len(refs) != 0 {
		t.Fatalf("refs = %+v", refs)
	}
}

func TestMarkdownLinkAndImage(t *testing.T) {
	refs := Markdown("[site](https://example.org) and ![pic](https://example.org/p.png)", false)
	if len(refs) != 2 {
		t.Fatalf("refs = %+v", refs)
	}
	if refs[0].ElementName != "a" || refs[0].AttributeName != "href" {
		t.Fatalf("link ref = %+v", refs[0])
	}
	if refs[1].ElementName != "img" || refs[1].AttributeName != "src" {
		t.Fatalf("image ref = %+v", refs[1])
	}
}

func TestMarkdownAutolink(t *testing.T) {
	refs := Markdown("see <https://example.org/x> for more", false)
	if len(refs) != 1 || refs[0].Text != "https://example.org/x" {
		t.Fatalf("refs = %+v", refs)
	}
}

func TestMarkdownSkipsFencedCodeUnlessVerbatim(t *testing.T) {
	doc := "```\n[site](https://example.org)\n```\n"
	if refs := Markdown(doc, false); len(refs) != 0 {
		t.Fatalf("refs = %+v, want none inside fence", refs)
	}
	if refs := Markdown(doc, true); len(refs) != 1 {
		t.Fatalf("refs = %+v, want one with includeVerbatim", refs)
	}
}

func TestHTMLBasicAttributes(t *testing.T) {
	doc := `<html><body><a href="https://example.org/a">x</a><img src="https://example.org/b.png"></body></html>`
	refs := HTML(doc, false)
	if len(refs) != 2 {
		t.Fatalf("refs = %+v", refs)
	}
}

func TestHTMLSkipsScriptContentButEmitsSrc(t *testing.T) {
	doc := `<script src="https://example.org/s.js">var x = "<a href='https://inside.example.org'>";</script>`
	refs := HTML(doc, false)
	if len(refs) != 1 || refs[0].Text != "https://example.org/s.js" {
		t.Fatalf("refs = %+v", refs)
	}
}

func TestHTMLIncludesVerbatimWhenEnabled(t *testing.T) {
	doc := `<pre><a href="https://example.org/hidden">x</a></pre>`
	if refs := HTML(doc, false); len(refs) != 0 {
		t.Fatalf("refs = %+v, want none by default", refs)
	}
	if refs := HTML(doc, true); len(refs) != 1 {
		t.Fatalf("refs = %+v, want one with includeVerbatim", refs)
	}
}

func TestHTMLSrcsetParsedIntoCandidates(t *testing.T) {
	doc := `<img srcset="https://example.org/a.png 1x, https://example.org/b.png 2x">`
	refs := HTML(doc, false)
	if len(refs) != 2 {
		t.Fatalf("refs = %+v", refs)
	}
	if refs[0].Text != "https://example.org/a.png" || refs[1].Text != "https://example.org/b.png" {
		t.Fatalf("refs = %+v", refs)
	}
}

func TestParseSrcsetTrailingCommaWithoutDescriptor(t *testing.T) {
	got := parseSrcset("https://example.org/a.png, https://example.org/b.png")
	if len(got) != 2 || got[0] != "https://example.org/a.png" || got[1] != "https://example.org/b.png" {
		t.Fatalf("got %v", got)
	}
}

func TestParseSrcsetTooManyTrailingCommasIsError(t *testing.T) {
	got := parseSrcset("https://example.org/a.png,, 1x")
	if got != nil {
		t.Fatalf("got %v, want nil on parse error", got)
	}
}

func TestParseSrcsetParenDescriptorNotSplit(t *testing.T) {
	got := parseSrcset("https://example.org/a.png 100w (a, b), https://example.org/b.png 200w")
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
}
