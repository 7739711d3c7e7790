package hostpool

import (
	"context"
	"net/http"
	"time"

	"ricochet/internal/adapters/chain"
	"ricochet/internal/core/status"
	"ricochet/internal/request"
)

// Check implements the Host's full per-request admission sequence
// (§4.5 steps 1-6): acquire a concurrency slot, wait for a rate-limit
// token, merge headers, invoke the handler chain, record stats, and
// release both permits on every exit path.
func (p *Pool) Check(ctx context.Context, req *request.Request, method string, c *chain.Chain) (status.Status, error) {
	host := p.GetOrCreate(req.URI.HostKey())

	release, err := host.Admit(ctx)
	if err != nil {
		return status.Status{}, err
	}
	defer release()

	if method == "" {
		method = http.MethodGet
	}

	runCtx, trail := WithRedirectTrail(ctx)
	runCtx = WithClient(runCtx, host.Client())
	runCtx = WithHost(runCtx, host)

	httpReq, err := http.NewRequestWithContext(runCtx, method, req.URI.String(), nil)
	if err != nil {
		return status.Status{}, err
	}
	host.PrepareHeaders(httpReq, p.global)

	// seed the trail with the starting URI so trail.first() is always the
	// original request regardless of whether any redirect was followed
	*trail = append(*trail, httpReq.URL.String())

	start := time.Now()
	s := c.Run(runCtx, httpReq)
	host.Stats.recordLatency(time.Since(start))
	host.Stats.recordOutcome(s.Code)

	return s, nil
}
