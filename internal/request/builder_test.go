package request

import (
	"testing"

	"ricochet/internal/core/source"
	"ricochet/internal/core/uri"
)

func TestResolveAbsolute(t *testing.T) {
	b := New(Options{})
	req, ok, err := b.Resolve(RawUri{Text: "https://example.org/x"}, source.ResolvedInputSource{}, "href")
	if err != nil || !ok {
		t.Fatalf("Resolve: ok=%v err=%v", ok, err)
	}
	if req.URI.String() != "https://example.org/x" {
		t.Fatalf("URI = %q", req.URI.String())
	}
}

func TestResolveRelativeAgainstRemoteSource(t *testing.T) {
	b := New(Options{})
	src := source.ResolvedInputSource{Kind: source.KindRemoteURL, RemoteURL: "https://example.org/a/b.html"}
	req, ok, err := b.Resolve(RawUri{Text: "../c.html"}, src, "href")
	if err != nil || !ok {
		t.Fatalf("Resolve: ok=%v err=%v", ok, err)
	}
	if req.URI.String() != "https://example.org/c.html" {
		t.Fatalf("URI = %q", req.URI.String())
	}
}

func TestResolveNoSchemePrepended(t *testing.T) {
	b := New(Options{NoScheme: true})
	req, ok, err := b.Resolve(RawUri{Text: "example.org/x"}, source.ResolvedInputSource{}, "")
	if err != nil || !ok {
		t.Fatalf("Resolve: ok=%v err=%v", ok, err)
	}
	if req.URI.Scheme() != "https" {
		t.Fatalf("Scheme = %q", req.URI.Scheme())
	}
}

func TestResolveExplicitBaseFallback(t *testing.T) {
	base := uri.MustParse("https://fallback.example/dir/")
	b := New(Options{ExplicitBase: &base})
	req, ok, err := b.Resolve(RawUri{Text: "page.html"}, source.ResolvedInputSource{Kind: source.KindStdin}, "")
	if err != nil || !ok {
		t.Fatalf("Resolve: ok=%v err=%v", ok, err)
	}
	if req.URI.String() != "https://fallback.example/dir/page.html" {
		t.Fatalf("URI = %q", req.URI.String())
	}
}

func TestResolveAnchorOnlyDroppedByDefault(t *testing.T) {
	b := New(Options{IncludeFragments: false})
	src := source.ResolvedInputSource{Kind: source.KindFSPath, FSPath: "/tmp/doc.html"}
	_, ok, err := b.Resolve(RawUri{Text: "#sec-2"}, src, "")
	if err != nil {
		t.Fatalf("Resolve err: %v", err)
	}
	if ok {
		t.Fatalf("expected anchor-only reference dropped")
	}
}

func TestResolveAnchorOnlyKeptWhenFragmentsEnabled(t *testing.T) {
	b := New(Options{IncludeFragments: true})
	src := source.ResolvedInputSource{Kind: source.KindFSPath, FSPath: "/tmp/doc.html"}
	req, ok, err := b.Resolve(RawUri{Text: "#sec-2"}, src, "")
	if err != nil {
		t.Fatalf("Resolve err: %v", err)
	}
	if !ok {
		t.Fatalf("expected anchor-only reference kept")
	}
	if req.URI.Fragment() != "sec-2" || !req.URI.IsFile() {
		t.Fatalf("URI = %+v", req.URI)
	}
}

func TestRequestKeyDedup(t *testing.T) {
	a := Request{URI: uri.MustParse("https://example.org/x"), Attribute: "href"}
	b := Request{URI: uri.MustParse("https://example.org/x"), Attribute: "href"}
	c := Request{URI: uri.MustParse("https://example.org/y"), Attribute: "href"}
	if a.Key() != b.Key() {
		t.Fatalf("expected identical requests to share a key")
	}
	if a.Key() == c.Key() {
		t.Fatalf("expected differing URIs to have distinct keys")
	}
}
