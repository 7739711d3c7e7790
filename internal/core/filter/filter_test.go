package filter

import (
	"testing"

	"ricochet/internal/core/status"
	"ricochet/internal/core/uri"
)

func mustURI(t *testing.T, s string) uri.URI {
	t.Helper()
	u, err := uri.Parse(s, nil)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return u
}

func TestIsEmpty(t *testing.T) {
	f, err := New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !f.IsEmpty() {
		t.Fatalf("expected empty filter")
	}
	f2, err := New(Config{Exclude: []string{".*"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if f2.IsEmpty() {
		t.Fatalf("expected non-empty filter")
	}
}

func TestIncludePrecedenceOverExclude(t *testing.T) {
	f, err := New(Config{
		Include: []string{`.*example\.com.*`},
		Exclude: []string{`.*example.*`},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	excluded, _ := f.IsExcluded(mustURI(t, "https://example.com/x"))
	if excluded {
		t.Fatalf("include should take precedence over a matching exclude")
	}
}

func TestSchemeWhitelistRejects(t *testing.T) {
	f, err := New(Config{Schemes: []string{"https"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	excluded, s := f.IsExcluded(mustURI(t, "ftp://example.org/x"))
	if !excluded || s.Kind != status.KindUnsupported {
		t.Fatalf("expected scheme rejection, got excluded=%v status=%+v", excluded, s)
	}
	excluded, _ = f.IsExcluded(mustURI(t, "https://example.org/x"))
	if excluded {
		t.Fatalf("allowed scheme should not be excluded")
	}
}

func TestMailExcluded(t *testing.T) {
	f, err := New(Config{ExcludeMail: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !f.IsMailExcluded() {
		t.Fatalf("expected mail excluded")
	}
	excluded, s := f.IsExcluded(mustURI(t, "mailto:a@example.org"))
	if !excluded || s.Kind != status.KindExcluded {
		t.Fatalf("expected mail excluded, got excluded=%v status=%+v", excluded, s)
	}
}

func TestIPExcludesLoopback(t *testing.T) {
	f, err := New(Config{IPExcludes: IPPredicates{Loopback: true}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	excluded, _ := f.IsExcluded(mustURI(t, "http://127.0.0.1/x"))
	if !excluded {
		t.Fatalf("expected loopback host excluded")
	}
	excluded, _ = f.IsExcluded(mustURI(t, "http://93.184.216.34/x"))
	if excluded {
		t.Fatalf("public IP should not be excluded by a loopback-only predicate")
	}
}

func TestIPExcludesAllPrivate(t *testing.T) {
	f, err := New(Config{IPExcludes: IPPredicates{AllPrivate: true}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, host := range []string{"http://10.0.0.5/x", "http://169.254.1.1/x", "http://127.0.0.1/x"} {
		if excluded, _ := f.IsExcluded(mustURI(t, host)); !excluded {
			t.Fatalf("expected %q excluded under exclude-all-private", host)
		}
	}
}

func TestExcludeRegexOnly(t *testing.T) {
	f, err := New(Config{Exclude: []string{`internal\.corp`}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	excluded, s := f.IsExcluded(mustURI(t, "https://internal.corp/x"))
	if !excluded || s.Kind != status.KindExcluded {
		t.Fatalf("expected excluded, got excluded=%v status=%+v", excluded, s)
	}
}

func TestInvalidRegexIsConfigError(t *testing.T) {
	if _, err := New(Config{Include: []string{"("}}); err == nil {
		t.Fatalf("expected configuration error for invalid include regex")
	}
	if _, err := New(Config{Exclude: []string{"("}}); err == nil {
		t.Fatalf("expected configuration error for invalid exclude regex")
	}
}

func TestPathExcludesGlob(t *testing.T) {
	f, err := New(Config{PathExcludes: []string{"vendor/**", "*.min.js"}, PathRoot: "/repo"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !f.IsPathExcluded("/repo/vendor/pkg/file.go") {
		t.Fatalf("expected vendor path excluded")
	}
	if !f.IsPathExcluded("/repo/app.min.js") {
		t.Fatalf("expected minified asset excluded")
	}
	if f.IsPathExcluded("/repo/main.go") {
		t.Fatalf("unrelated path should not be excluded")
	}
}

func TestPathExcludesIgnoresCommentsAndBlank(t *testing.T) {
	f, err := New(Config{PathExcludes: []string{"# a comment", "", "  ", "dist/**"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if f.IsPathExcluded("") {
		t.Fatalf("empty path should not match")
	}
}
