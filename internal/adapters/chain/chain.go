// Package chain implements the handler chain (§4.6): an ordered list
// of request-transforming handlers terminated by the website checker
package chain

import (
	"context"
	"net/http"

	"ricochet/internal/core/status"
	perr "ricochet/internal/platform/errors"
)

// Handler inspects/rewrites req and either hands it to the next handler
// (returning the possibly-modified request and ok=true) or terminates
// the chain with a final Status (ok=false, the returned Status is
// authoritative)
type Handler func(ctx context.Context, req *http.Request) (next *http.Request, s status.Status, ok bool)

// Chain is an immutable, ordered handler list. The last handler is
// expected to always terminate (never return ok=true) — by convention
// this is the website checker.
type Chain struct {
	handlers []Handler
}

// New builds a Chain from handlers in application order
func New(handlers ...Handler) *Chain {
	return &Chain{handlers: handlers}
}

// Run threads req through every handler in order, stopping at the
// first one that terminates. If every handler passes the request along
// (which should not happen given a well-formed chain), the last
// request's never-terminated state is reported as an internal error.
func (c *Chain) Run(ctx context.Context, req *http.Request) status.Status {
	current := req
	for _, h := range c.handlers {
		next, s, ok := h(ctx, current)
		if !ok {
			return s
		}
		current = next
	}
	return status.Errorf(perr.ErrorCodeUnknown, "handler chain exhausted without a terminal handler")
}
