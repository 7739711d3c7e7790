package main

import (
	"testing"

	"ricochet/internal/core/source"
)

func TestParseAcceptSpecRangesAndSingles(t *testing.T) {
	accept, err := parseAcceptSpec("200..=204,429")
	if err != nil {
		t.Fatalf("parseAcceptSpec: %v", err)
	}
	for _, code := range []int{200, 202, 204, 429} {
		if !accept(code) {
			t.Errorf("expected %d to be accepted", code)
		}
	}
	for _, code := range []int{199, 205, 430} {
		if accept(code) {
			t.Errorf("expected %d to be rejected", code)
		}
	}
}

func TestParseAcceptSpecEmptyMeansDefault(t *testing.T) {
	accept, err := parseAcceptSpec("  ")
	if err != nil {
		t.Fatalf("parseAcceptSpec: %v", err)
	}
	if accept != nil {
		t.Fatalf("expected nil predicate for empty spec")
	}
}

func TestParseAcceptSpecRejectsGarbage(t *testing.T) {
	if _, err := parseAcceptSpec("not-a-code"); err == nil {
		t.Fatalf("expected an error for a non-numeric entry")
	}
}

func TestClassifyInputKinds(t *testing.T) {
	cases := map[string]source.Kind{
		"-":                  source.KindStdin,
		"https://example.com": source.KindRemoteURL,
		"docs/*.md":          source.KindGlob,
		"docs/readme.md":     source.KindFSPath,
	}
	for arg, want := range cases {
		got := classifyInput(arg)
		if got.Kind != want {
			t.Errorf("classifyInput(%q).Kind = %v, want %v", arg, got.Kind, want)
		}
	}
}

func TestParseFlagsDefaultsAndPositionals(t *testing.T) {
	f, positional, err := parseFlags([]string{"--max-concurrency", "4", "a.md", "b.md"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if f.maxConcurrency != 4 {
		t.Errorf("maxConcurrency = %d, want 4", f.maxConcurrency)
	}
	if f.method != "GET" {
		t.Errorf("method default = %q, want GET", f.method)
	}
	if len(positional) != 2 || positional[0] != "a.md" || positional[1] != "b.md" {
		t.Errorf("positional = %v, want [a.md b.md]", positional)
	}
}

func TestBuildConfigRejectsBadRemap(t *testing.T) {
	f, _, err := parseFlags([]string{"--remap", "not-two-fields"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if _, err := buildConfig(f); err == nil {
		t.Fatalf("expected buildConfig to reject a malformed --remap entry")
	}
}

func TestBuildConfigRejectsUnsupportedFormat(t *testing.T) {
	f, _, err := parseFlags([]string{"--format", "json"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if _, err := buildConfig(f); err == nil {
		t.Fatalf("expected buildConfig to reject --format json")
	}
}

func TestBuildConfigAppliesOfflineScheme(t *testing.T) {
	f, _, err := parseFlags([]string{"--offline"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	cfg, err := buildConfig(f)
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	if len(cfg.Schemes) != 1 || cfg.Schemes[0] != "file" {
		t.Errorf("Schemes = %v, want [file]", cfg.Schemes)
	}
}

func TestResolveBaseDirectoryPath(t *testing.T) {
	u, err := resolveBase(t.TempDir())
	if err != nil {
		t.Fatalf("resolveBase: %v", err)
	}
	if u == nil || u.Scheme() != "file" {
		t.Fatalf("expected a file:// base, got %v", u)
	}
}

func TestResolveBaseEmptyIsNil(t *testing.T) {
	u, err := resolveBase("")
	if err != nil {
		t.Fatalf("resolveBase: %v", err)
	}
	if u != nil {
		t.Fatalf("expected nil base for empty input")
	}
}
