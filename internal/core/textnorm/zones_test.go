package textnorm

import "testing"

func TestDetectZones_CodeFence(t *testing.T) {
	in := "before\n```go\nfunc f() {}\n```\nafter"
	zones := DetectZones(in)
	found := false
	for _, z := range zones {
		if z.Type == ZoneCodeFence {
			found = true
			content := in[z.Start:z.End]
			if content != "go\nfunc f() {}\n" {
				t.Fatalf("fence content = %q", content)
			}
		}
	}
	if !found {
		t.Fatalf("expected a code fence zone, got %+v", zones)
	}
}

func TestDetectZones_InlineCode(t *testing.T) {
	in := "see `example.com` for details"
	zones := DetectZones(in)
	if len(zones) != 1 || zones[0].Type != ZoneCodeInline {
		t.Fatalf("zones = %+v", zones)
	}
	if got := in[zones[0].Start:zones[0].End]; got != "example.com" {
		t.Fatalf("inline content = %q", got)
	}
}

func TestDetectZones_Quote(t *testing.T) {
	in := "normal line\n> quoted https://example.org\nnormal again"
	zones := DetectZones(in)
	if len(zones) != 1 || zones[0].Type != ZoneQuote {
		t.Fatalf("zones = %+v", zones)
	}
	if got := in[zones[0].Start:zones[0].End]; got != "quoted https://example.org" {
		t.Fatalf("quote content = %q", got)
	}
}

func TestDetectZones_InlineCodeInsideFenceNotDoubleTagged(t *testing.T) {
	in := "```\nhas `backtick` inside\n```"
	zones := DetectZones(in)
	for _, z := range zones {
		if z.Type == ZoneCodeInline {
			t.Fatalf("inline code should not be tagged separately inside a fence: %+v", zones)
		}
	}
}

func TestDetectZones_Empty(t *testing.T) {
	if zones := DetectZones(""); zones != nil {
		t.Fatalf("expected nil zones for empty input, got %+v", zones)
	}
}
