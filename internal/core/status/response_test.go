package status

import (
	"testing"
	"time"
)

func TestCacheValueRoundTrip(t *testing.T) {
	at := time.Unix(1_700_000_000, 0).UTC()
	cases := []CacheValue{
		{Kind: CacheOk, Code: 200, Timestamp: at},
		{Kind: CacheError, Code: 500, Timestamp: at},
		{Kind: CacheExcluded, Timestamp: at},
		{Kind: CacheUnsupported, Timestamp: at},
	}
	for _, c := range cases {
		label := c.Marshal()
		got, err := Unmarshal(label, at.Unix())
		if err != nil {
			t.Fatalf("Unmarshal(%q): %v", label, err)
		}
		if got != c {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, c)
		}
	}
}

func TestMarshalLiteralLabels(t *testing.T) {
	cases := []struct {
		c    CacheValue
		want string
	}{
		{CacheValue{Kind: CacheOk, Code: 200}, "ok:200"},
		{CacheValue{Kind: CacheError, Code: 404}, "error:404"},
		{CacheValue{Kind: CacheError}, "error"},
		{CacheValue{Kind: CacheExcluded}, "excluded"},
		{CacheValue{Kind: CacheUnsupported}, "unsupported"},
	}
	for _, c := range cases {
		if got := c.c.Marshal(); got != c.want {
			t.Fatalf("Marshal(%+v) = %q, want %q", c.c, got, c.want)
		}
	}
}

func TestUnmarshalMalformed(t *testing.T) {
	for _, bad := range []string{"", "ok:", "error:x", "ok:x", "bogus"} {
		if _, err := Unmarshal(bad, 0); err == nil {
			t.Fatalf("Unmarshal(%q) expected error", bad)
		}
	}
}

func TestFromStatusCacheableKinds(t *testing.T) {
	at := time.Now()
	if _, ok := FromStatus(Ok(200), at); !ok {
		t.Fatalf("Ok should be cacheable")
	}
	if _, ok := FromStatus(RedirectedTo(301, []string{"a", "b"}), at); !ok {
		t.Fatalf("Redirected should be cacheable")
	}
	if _, ok := FromStatus(Excluded(), at); !ok {
		t.Fatalf("Excluded should be cacheable")
	}
	if _, ok := FromStatus(Unsupported("x"), at); !ok {
		t.Fatalf("Unsupported should be cacheable")
	}
	if _, ok := FromStatus(Cached(Ok(200)), at); ok {
		t.Fatalf("Cached should not itself be cacheable")
	}
	if _, ok := FromStatus(RequestErrorf(0, "x"), at); ok {
		t.Fatalf("RequestError should not be cacheable")
	}
}

func TestCacheValueToStatusWrapsCached(t *testing.T) {
	cv := CacheValue{Kind: CacheOk, Code: 200}
	s := cv.ToStatus()
	if s.Kind != KindCached || s.Code != 200 {
		t.Fatalf("ToStatus = %+v", s)
	}
}
