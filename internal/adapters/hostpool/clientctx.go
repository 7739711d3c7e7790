package hostpool

import (
	"context"
	"net/http"
)

type clientKeyType struct{}

var clientKey = clientKeyType{}

// WithClient attaches a Host's shared *http.Client to ctx so the
// terminal website-checker handler can execute the request without the
// chain package needing to depend on hostpool's admission machinery
func WithClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, clientKey, client)
}

// ClientFromContext retrieves a client attached by WithClient
func ClientFromContext(ctx context.Context) (*http.Client, bool) {
	c, ok := ctx.Value(clientKey).(*http.Client)
	return c, ok
}

type hostKeyType struct{}

var hostKey = hostKeyType{}

// WithHost attaches the admitting Host to ctx so the terminal handler
// can feed observed Retry-After/RateLimit-Reset spacing back into it
// (§4.5) without depending on the pool/admission machinery directly
func WithHost(ctx context.Context, host *Host) context.Context {
	return context.WithValue(ctx, hostKey, host)
}

// HostFromContext retrieves the Host attached by WithHost
func HostFromContext(ctx context.Context) (*Host, bool) {
	h, ok := ctx.Value(hostKey).(*Host)
	return h, ok
}
