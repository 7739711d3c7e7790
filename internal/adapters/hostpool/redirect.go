package hostpool

import "context"

type trailKeyType struct{}

var trailKey = trailKeyType{}

// WithRedirectTrail returns a context carrying a fresh redirect-trail
// accumulator for one request; the installed CheckRedirect policy
// appends each hop's target URL to it as the client follows redirects
func WithRedirectTrail(ctx context.Context) (context.Context, *[]string) {
	trail := new([]string)
	return context.WithValue(ctx, trailKey, trail), trail
}

func trailFromContext(ctx context.Context) *[]string {
	trail, _ := ctx.Value(trailKey).(*[]string)
	return trail
}

// RedirectTrailFrom reads back the hops recorded by the redirect policy
// for the request carried by ctx. Used by the website checker after a
// round trip completes to attach the trail to a Redirected status.
func RedirectTrailFrom(ctx context.Context) []string {
	trail := trailFromContext(ctx)
	if trail == nil {
		return nil
	}
	return *trail
}
