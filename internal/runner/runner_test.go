package runner

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ricochet/internal/adapters/chain"
	"ricochet/internal/adapters/filecheck"
	"ricochet/internal/adapters/hostpool"
	"ricochet/internal/adapters/mailcheck"
	"ricochet/internal/adapters/website"
	"ricochet/internal/core/cache"
	"ricochet/internal/core/filter"
	"ricochet/internal/core/remap"
	"ricochet/internal/core/status"
	"ricochet/internal/core/uri"
	"ricochet/internal/request"
)

func mustURI(t *testing.T, s string) uri.URI {
	t.Helper()
	u, err := uri.Parse(s, nil)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return u
}

func newWebsiteRunner(t *testing.T, srv *httptest.Server, extra Options) *Runner {
	t.Helper()
	pool := hostpool.New(func(string) hostpool.Config {
		return hostpool.Config{Concurrency: 4, Interval: time.Millisecond}
	}, nil)
	c := chain.New(website.NewHandler(website.Config{MaxRetries: 0}))
	extra.Checkers.Pool = pool
	extra.Checkers.Chain = c
	return New(extra)
}

func collect(ch <-chan status.Response) []status.Response {
	var out []status.Response
	for r := range ch {
		out = append(out, r)
	}
	return out
}

func TestRunnerOkResponseFromWebsite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := newWebsiteRunner(t, srv, Options{Concurrency: 2})

	items := make(chan request.Request, 1)
	items <- request.Request{URI: mustURI(t, srv.URL)}
	close(items)

	got := collect(r.Run(t.Context(), items))
	if len(got) != 1 || got[0].Status.Kind != status.KindOk {
		t.Fatalf("got = %+v", got)
	}
}

func TestRunnerAppliesFilterBeforeDispatch(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f, err := filter.New(filter.Config{Exclude: []string{".*"}})
	if err != nil {
		t.Fatalf("filter.New: %v", err)
	}

	r := newWebsiteRunner(t, srv, Options{Concurrency: 2, Filter: f})

	items := make(chan request.Request, 1)
	items <- request.Request{URI: mustURI(t, srv.URL)}
	close(items)

	got := collect(r.Run(t.Context(), items))
	if len(got) != 1 || got[0].Status.Kind != status.KindExcluded {
		t.Fatalf("got = %+v", got)
	}
	if calls != 0 {
		t.Fatalf("expected no network call for excluded request, calls = %d", calls)
	}
}

func TestRunnerAppliesRemapBeforeDispatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rm, err := remap.New([]remap.Rule{{Pattern: `^https://old\.invalid/`, Target: srv.URL}})
	if err != nil {
		t.Fatalf("remap.New: %v", err)
	}

	r := newWebsiteRunner(t, srv, Options{Concurrency: 2, Remapper: rm})

	items := make(chan request.Request, 1)
	items <- request.Request{URI: mustURI(t, "https://old.invalid/")}
	close(items)

	got := collect(r.Run(t.Context(), items))
	if len(got) != 1 || got[0].Status.Kind != status.KindOk {
		t.Fatalf("got = %+v", got)
	}
	if got[0].URI != srv.URL {
		t.Fatalf("URI = %q, want remapped target", got[0].URI)
	}
}

func TestRunnerServesCacheHitWithoutDispatch(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := cache.New()
	c.Store(srv.URL, status.CacheValue{Kind: status.CacheOk, Code: 200, Timestamp: time.Now()})

	r := newWebsiteRunner(t, srv, Options{Concurrency: 2, Cache: c})

	items := make(chan request.Request, 1)
	items <- request.Request{URI: mustURI(t, srv.URL)}
	close(items)

	got := collect(r.Run(t.Context(), items))
	if len(got) != 1 || got[0].Status.Kind != status.KindCached {
		t.Fatalf("got = %+v", got)
	}
	if calls != 0 {
		t.Fatalf("expected cache hit to skip the network call, calls = %d", calls)
	}
}

func TestRunnerStoresResultInCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := cache.New()
	r := newWebsiteRunner(t, srv, Options{Concurrency: 2, Cache: c})

	items := make(chan request.Request, 1)
	items <- request.Request{URI: mustURI(t, srv.URL)}
	close(items)

	collect(r.Run(t.Context(), items))

	v, ok := c.Get(srv.URL)
	if !ok || v.Kind != status.CacheOk || v.Code != 200 {
		t.Fatalf("cache entry = %+v, %v", v, ok)
	}
}

func TestRunnerDispatchesMailCheck(t *testing.T) {
	r := New(Options{
		Concurrency: 1,
		Checkers:    Checkers{Mail: mailcheck.New(mailcheck.Config{Enabled: false})},
	})

	items := make(chan request.Request, 1)
	items <- request.Request{URI: mustURI(t, "mailto:nobody@example.org")}
	close(items)

	got := collect(r.Run(t.Context(), items))
	if len(got) != 1 || got[0].Status.Kind != status.KindExcluded {
		t.Fatalf("got = %+v", got)
	}
}

func TestRunnerDispatchesFileCheck(t *testing.T) {
	r := New(Options{
		Concurrency: 1,
		Checkers:    Checkers{File: filecheck.New(filecheck.Config{})},
	})

	items := make(chan request.Request, 1)
	items <- request.Request{URI: mustURI(t, "file:///does/not/exist")}
	close(items)

	got := collect(r.Run(t.Context(), items))
	if len(got) != 1 || got[0].Status.Kind != status.KindError {
		t.Fatalf("got = %+v", got)
	}
}

func TestRunnerUnconfiguredCheckerIsUnsupported(t *testing.T) {
	r := New(Options{Concurrency: 1})

	items := make(chan request.Request, 1)
	items <- request.Request{URI: mustURI(t, "https://example.org/")}
	close(items)

	got := collect(r.Run(t.Context(), items))
	if len(got) != 1 || got[0].Status.Kind != status.KindUnsupported {
		t.Fatalf("got = %+v", got)
	}
}
