package stats

import (
	"bytes"
	"strings"
	"testing"

	"ricochet/internal/core/source"
	"ricochet/internal/core/status"
	perr "ricochet/internal/platform/errors"
)

func TestAddCountsByKind(t *testing.T) {
	a := New()
	a.Add(status.Response{URI: "https://a.example/", Status: status.Ok(200)})
	a.Add(status.Response{URI: "https://b.example/", Status: status.Errorf(perr.ErrorCodeUnknown, "boom")})

	s := a.Finalize(nil)
	if s.Total != 2 {
		t.Fatalf("Total = %d", s.Total)
	}
	if s.ByKind[status.KindOk] != 1 || s.ByKind[status.KindError] != 1 {
		t.Fatalf("ByKind = %+v", s.ByKind)
	}
}

func TestFailuresGroupedBySource(t *testing.T) {
	a := New()
	src := source.ResolvedInputSource{Kind: source.KindFSPath, FSPath: "page.html"}
	a.Add(status.Response{URI: "https://a.example/", Status: status.Errorf(perr.ErrorCodeUnknown, "boom"), Source: src})
	a.Add(status.Response{URI: "https://b.example/", Status: status.Ok(200), Source: src})

	s := a.Finalize(nil)
	fails := s.Failures["page.html"]
	if len(fails) != 1 || fails[0].URI != "https://a.example/" {
		t.Fatalf("Failures = %+v", fails)
	}
}

func TestExcludedIsNotCountedAsFailure(t *testing.T) {
	a := New()
	a.Add(status.Response{URI: "mailto:x@example.org", Status: status.Excluded()})

	s := a.Finalize(nil)
	if len(s.Failures) != 0 {
		t.Fatalf("Failures = %+v, want none for an excluded result", s.Failures)
	}
	if s.FailedAny {
		t.Fatalf("FailedAny = true, want false")
	}
}

func TestFailedAnyReflectsErrorKinds(t *testing.T) {
	a := New()
	a.Add(status.Response{URI: "https://a.example/", Status: status.TimeoutStatus(0)})

	s := a.Finalize(nil)
	if !s.FailedAny {
		t.Fatalf("FailedAny = false, want true for a timeout")
	}
}

func TestDrainConsumesChannel(t *testing.T) {
	a := New()
	ch := make(chan status.Response, 2)
	ch <- status.Response{URI: "https://a.example/", Status: status.Ok(200)}
	ch <- status.Response{URI: "https://b.example/", Status: status.Ok(200)}
	close(ch)

	a.Drain(ch)
	s := a.Finalize(nil)
	if s.Total != 2 {
		t.Fatalf("Total = %d", s.Total)
	}
}

func TestWritePlainTextIncludesTotalsAndFailures(t *testing.T) {
	a := New()
	src := source.ResolvedInputSource{Kind: source.KindFSPath, FSPath: "page.html"}
	a.Add(status.Response{URI: "https://a.example/", Status: status.Ok(200), Source: src})
	a.Add(status.Response{URI: "https://b.example/", Status: status.Errorf(perr.ErrorCodeUnknown, "not found"), Source: src})

	var buf bytes.Buffer
	WritePlainText(&buf, a.Finalize(nil))
	out := buf.String()

	if !strings.Contains(out, "TOTAL") || !strings.Contains(out, "2") {
		t.Fatalf("missing total in output:\n%s", out)
	}
	if !strings.Contains(out, "FAILURES") || !strings.Contains(out, "page.html") {
		t.Fatalf("missing failures section in output:\n%s", out)
	}
	if !strings.Contains(out, "https://b.example/") {
		t.Fatalf("missing failing URI in output:\n%s", out)
	}
}
