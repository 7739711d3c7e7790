package mailcheck

import (
	"testing"

	"ricochet/internal/core/status"
	"ricochet/internal/core/uri"
)

func mustParse(t *testing.T, raw string) uri.URI {
	t.Helper()
	u, err := uri.Parse(raw, nil)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

func TestDisabledReturnsExcluded(t *testing.T) {
	c := New(Config{Enabled: false})
	s := c.Check(t.Context(), mustParse(t, "mailto:a@example.org"))
	if s.Kind != status.KindExcluded {
		t.Fatalf("status = %+v", s)
	}
}

func TestMalformedAddressIsError(t *testing.T) {
	c := New(Config{Enabled: true})
	s := c.Check(t.Context(), mustParse(t, "mailto:not-an-address"))
	if s.Kind != status.KindError {
		t.Fatalf("status = %+v", s)
	}
}

func TestUnresolvableDomainIsError(t *testing.T) {
	c := New(Config{Enabled: true})
	s := c.Check(t.Context(), mustParse(t, "mailto:a@invalid.invalid-tld-for-tests"))
	if s.Kind != status.KindError {
		t.Fatalf("status = %+v", s)
	}
}

func TestAddressExtractionStripsSubject(t *testing.T) {
	u := mustParse(t, "mailto:a@example.org?subject=hello")
	if got := u.Address(); got != "a@example.org" {
		t.Fatalf("address = %q", got)
	}
}
