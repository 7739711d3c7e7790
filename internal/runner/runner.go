// Package runner implements the consumer half of §4.11: it drains a
// stream of resolved Requests, applies remap and the filter policy,
// consults the cache, dispatches into the right checker, and forwards
// Response values into a bounded result channel
package runner

import (
	"context"
	"sync"
	"time"

	"ricochet/internal/adapters/archive"
	"ricochet/internal/adapters/chain"
	"ricochet/internal/adapters/filecheck"
	"ricochet/internal/adapters/hostpool"
	"ricochet/internal/adapters/mailcheck"
	"ricochet/internal/core/cache"
	"ricochet/internal/core/filter"
	"ricochet/internal/core/remap"
	"ricochet/internal/core/status"
	"ricochet/internal/core/uri"
	perr "ricochet/internal/platform/errors"
	"ricochet/internal/request"
)

// Checkers bundles the three dispatch targets a resolved, non-cached,
// non-excluded Request can land on
type Checkers struct {
	Mail    *mailcheck.Checker
	File    *filecheck.Checker
	Pool    *hostpool.Pool
	Chain   *chain.Chain
	Method  string
	Archive *archive.Probe // nil disables the Wayback fallback
}

// Options configures a Runner
type Options struct {
	Concurrency int
	Remapper    *remap.Remapper
	Filter      *filter.Filter
	Cache       *cache.Cache
	Checkers    Checkers
	// CacheExcludeStatus lists HTTP status codes that are never written
	// back to the cache even on an otherwise-cacheable outcome
	CacheExcludeStatus map[int]bool
}

// Runner drains a Request channel and produces a Response channel,
// owning the cache and the host pool for the run's duration
type Runner struct {
	opts Options
}

// New builds a Runner from Options
func New(opts Options) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Runner{opts: opts}
}

// Run drains items until the input channel closes and every dispatched
// check completes, then closes the returned channel. Shutdown order
// matches §4.11: producer closes -> in-flight checks drain -> result
// channel closes -> caller finalizes stats and persists the cache.
func (r *Runner) Run(ctx context.Context, items <-chan request.Request) <-chan status.Response {
	out := make(chan status.Response, r.opts.Concurrency)

	go func() {
		defer close(out)

		sem := make(chan struct{}, r.opts.Concurrency)
		var wg sync.WaitGroup

		for req := range items {
			select {
			case <-ctx.Done():
				wg.Wait()
				return
			default:
			}

			wg.Add(1)
			sem <- struct{}{}
			go func(req request.Request) {
				defer func() { <-sem; wg.Done() }()
				resp := r.process(ctx, req)
				select {
				case out <- resp:
				case <-ctx.Done():
				}
			}(req)
		}

		wg.Wait()
	}()

	return out
}

// process implements the per-request decision sequence: remap, filter,
// cache lookup, dispatch, cache store
func (r *Runner) process(ctx context.Context, req request.Request) status.Response {
	u := req.URI
	if r.opts.Remapper != nil {
		u = r.opts.Remapper.Remap(u)
	}

	if r.opts.Filter != nil {
		if excluded, s := r.opts.Filter.IsExcluded(u); excluded {
			return r.respond(req, u, s)
		}
	}

	key := u.String()
	if r.opts.Cache != nil {
		if v, ok := r.opts.Cache.Get(key); ok && v.Kind == status.CacheOk {
			return r.respond(req, u, v.ToStatus())
		}
	}

	s := r.dispatch(ctx, u)

	if r.opts.Cache != nil && !u.IsFile() && !r.opts.CacheExcludeStatus[s.Code] {
		if v, ok := status.FromStatus(s, time.Now()); ok {
			r.opts.Cache.Store(key, v)
		}
	}

	return r.respond(req, u, s)
}

func (r *Runner) dispatch(ctx context.Context, u uri.URI) status.Status {
	switch {
	case u.IsMail():
		if r.opts.Checkers.Mail == nil {
			return status.Unsupported("mail checking not configured")
		}
		return r.opts.Checkers.Mail.Check(ctx, u)

	case u.IsFile():
		if r.opts.Checkers.File == nil {
			return status.Unsupported("file checking not configured")
		}
		return r.opts.Checkers.File.Check(u)

	default:
		return r.checkWebsite(ctx, u)
	}
}

func (r *Runner) checkWebsite(ctx context.Context, u uri.URI) status.Status {
	pool := r.opts.Checkers.Pool
	c := r.opts.Checkers.Chain
	if pool == nil || c == nil {
		return status.Unsupported("website checking not configured")
	}

	req := &request.Request{URI: u}
	s, err := pool.Check(ctx, req, r.opts.Checkers.Method, c)
	if err != nil {
		s = status.Errorf(perr.ErrorCodeNetworkRequest, err.Error())
	}

	if !s.IsSuccess() && r.opts.Checkers.Archive != nil && r.opts.Checkers.Archive.Enabled() {
		s = r.opts.Checkers.Archive.Resolve(ctx, u.String(), s)
	}

	return s
}

func (r *Runner) respond(req request.Request, u uri.URI, s status.Status) status.Response {
	return status.Response{URI: u.String(), Status: s, Source: req.Source}
}
