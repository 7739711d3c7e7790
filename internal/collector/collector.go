// Package collector drives input expansion, content reading, extraction,
// and request construction as a bounded, concurrent stream of Request
// values (§4.11's producer side)
package collector

import (
	"context"
	"os"
	"sync"

	"ricochet/internal/core/filter"
	"ricochet/internal/core/source"
	"ricochet/internal/extract"
	"ricochet/internal/request"
)

// Item is either a resolved Request or a resolution failure tied to the
// input source it came from — a collector-level parallel to Response's
// RequestError variant
type Item struct {
	Request request.Request
	Source  source.ResolvedInputSource
	Err     error
}

// Options configures the producer pipeline
type Options struct {
	Concurrency int
	ExtractOpts extract.Options
	Builder     *request.Builder
	Filter      *filter.Filter // path-exclude checks only; URI-level filtering is the runner's job
	UserAgent   string
}

// Collector streams Request values for a set of caller-supplied inputs
type Collector struct {
	opts  Options
	fetch fetchOptions
}

// New builds a Collector from Options
func New(opts Options) *Collector {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	fo := defaultFetchOptions()
	if opts.UserAgent != "" {
		fo.UserAgent = opts.UserAgent
	}
	return &Collector{opts: opts, fetch: fo}
}

// Stream launches the producer and returns a channel of Item values with
// capacity max_concurrency, closed once every input has been fully
// processed. Requests with identical Key()s are deduplicated within the run.
func (c *Collector) Stream(ctx context.Context, inputs []source.InputSource) <-chan Item {
	out := make(chan Item, c.opts.Concurrency)

	go func() {
		defer close(out)

		sem := make(chan struct{}, c.opts.Concurrency)
		var wg sync.WaitGroup
		var seen sync.Map

		for _, in := range inputs {
			resolved, err := resolveInput(in)
			if err != nil {
				select {
				case out <- Item{Err: err, Source: source.ResolvedInputSource{Kind: in.Kind, FSPath: in.Path, RemoteURL: in.RemoteURL, Inline: in.Inline}}:
				case <-ctx.Done():
					return
				}
				continue
			}

			for _, rs := range resolved {
				if rs.Kind == source.KindFSPath && c.opts.Filter != nil && c.opts.Filter.IsPathExcluded(rs.FSPath) {
					continue
				}

				wg.Add(1)
				sem <- struct{}{}
				go func(rs source.ResolvedInputSource) {
					defer func() { <-sem; wg.Done() }()
					c.processOne(ctx, rs, out, &seen)
				}(rs)
			}
		}

		wg.Wait()
	}()

	return out
}

func (c *Collector) processOne(ctx context.Context, rs source.ResolvedInputSource, out chan<- Item, seen *sync.Map) {
	select {
	case <-ctx.Done():
		return
	default:
	}

	content, err := readContent(ctx, rs, c.fetch, os.Stdin)
	if err != nil {
		select {
		case out <- Item{Err: err, Source: rs}:
		case <-ctx.Done():
		}
		return
	}

	path := rs.FSPath
	if path == "" {
		path = rs.RemoteURL
	}

	for _, raw := range extract.Extract(content, path, c.opts.ExtractOpts) {
		req, ok, err := c.opts.Builder.Resolve(raw, rs, raw.AttributeName)
		if err != nil || !ok {
			continue
		}
		if _, dup := seen.LoadOrStore(req.Key(), struct{}{}); dup {
			continue
		}
		select {
		case out <- Item{Request: req, Source: rs}:
		case <-ctx.Done():
			return
		}
	}
}

