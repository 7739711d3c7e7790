package chain

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"ricochet/internal/core/status"
)

const googlebotUA = "Googlebot/2.1 (+http://www.google.com/bot.html)"

// NewQuirksHandler returns the handler that rewrites known-hostile
// request shapes before they reach the website checker. At most one
// quirk fires per request.
func NewQuirksHandler() Handler {
	return func(_ context.Context, req *http.Request) (*http.Request, status.Status, bool) {
		host := strings.ToLower(req.URL.Hostname())

		switch {
		case host == "twitter.com" || strings.HasSuffix(host, ".twitter.com"):
			req.Method = http.MethodHead
			req.Header.Set("User-Agent", googlebotUA)
		case strings.HasSuffix(host, ".github.io") && req.Method == http.MethodHead:
			// GitHub Pages sometimes 405s HEAD requests
			req.Method = http.MethodGet
		case (host == "youtube.com" || host == "www.youtube.com") && strings.HasPrefix(req.URL.Path, "/watch"):
			if v := req.URL.Query().Get("v"); v != "" {
				oembed := &url.URL{
					Scheme:   "https",
					Host:     "www.youtube.com",
					Path:     "/oembed",
					RawQuery: url.Values{"url": {req.URL.String()}}.Encode(),
				}
				req.URL = oembed
				req.Host = oembed.Host
			}
		}
		return req, status.Status{}, true
	}
}
