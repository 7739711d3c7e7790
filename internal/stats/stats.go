// Package stats aggregates the runner's Response stream into the
// per-run summary a report sink renders (§4.12): totals by status
// kind, the failures grouped by input source, and a snapshot of each
// host's admission counters
package stats

import (
	"sort"
	"sync"

	"ricochet/internal/adapters/hostpool"
	"ricochet/internal/core/status"
)

// Failure is one non-successful Response, retained for the per-source
// failure listing
type Failure struct {
	URI    string
	Status status.Status
	Source string
}

// Summary is the finalized, read-only view an Aggregator produces
type Summary struct {
	Total     int
	ByKind    map[status.Kind]int
	Failures  map[string][]Failure // keyed by ResolvedInputSource.String()
	HostStats map[string]hostpool.Snapshot
	FailedAny bool
}

// Aggregator consumes Response values and accumulates counts. Safe for
// concurrent Add calls from multiple runner goroutines; Finalize should
// only be called once the Response channel has been fully drained.
type Aggregator struct {
	mu       sync.Mutex
	total    int
	byKind   map[status.Kind]int
	failures map[string][]Failure
}

// New returns an empty Aggregator
func New() *Aggregator {
	return &Aggregator{
		byKind:   make(map[status.Kind]int),
		failures: make(map[string][]Failure),
	}
}

// Add records one Response's outcome
func (a *Aggregator) Add(r status.Response) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total++
	a.byKind[r.Status.Kind]++

	if !r.Status.IsSuccess() && r.Status.Kind != status.KindExcluded {
		src := r.Source.String()
		a.failures[src] = append(a.failures[src], Failure{
			URI:    r.URI,
			Status: r.Status,
			Source: src,
		})
	}
}

// Drain ranges over a Response channel until it closes, feeding every
// value to Add. Convenience for the common "consume the runner's
// output channel wholesale" case.
func (a *Aggregator) Drain(responses <-chan status.Response) {
	for r := range responses {
		a.Add(r)
	}
}

// Finalize snapshots the accumulated counts plus the host pool's
// per-host admission stats into an immutable Summary. pool may be nil
// when no website checks were dispatched (e.g. --dump-inputs runs).
func (a *Aggregator) Finalize(pool *hostpool.Pool) Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	byKind := make(map[status.Kind]int, len(a.byKind))
	for k, v := range a.byKind {
		byKind[k] = v
	}

	failures := make(map[string][]Failure, len(a.failures))
	for k, v := range a.failures {
		cp := make([]Failure, len(v))
		copy(cp, v)
		failures[k] = cp
	}

	var hostStats map[string]hostpool.Snapshot
	if pool != nil {
		hostStats = pool.AllStats()
	}

	failedAny := byKind[status.KindError] > 0 ||
		byKind[status.KindTimeout] > 0 ||
		byKind[status.KindUnknownStatusCode] > 0 ||
		byKind[status.KindRequestError] > 0

	return Summary{
		Total:     a.total,
		ByKind:    byKind,
		Failures:  failures,
		HostStats: hostStats,
		FailedAny: failedAny,
	}
}

// SortedSources returns the failure map's keys in a stable, readable
// order for rendering
func (s Summary) SortedSources() []string {
	out := make([]string, 0, len(s.Failures))
	for src := range s.Failures {
		out = append(out, src)
	}
	sort.Strings(out)
	return out
}
