package chain

import (
	"context"
	"encoding/base64"
	"net/http"
	"regexp"

	"ricochet/internal/core/status"
)

// BasicAuthSelector maps a request URI pattern to credentials
type BasicAuthSelector struct {
	Pattern  *regexp.Regexp
	Username string
	Password string
}

// NewBasicAuthHandler returns the basic-auth injector: the first
// selector whose pattern matches the request URL wins and sets the
// Authorization header; no selector matching leaves the request
// untouched
func NewBasicAuthHandler(selectors []BasicAuthSelector) Handler {
	return func(_ context.Context, req *http.Request) (*http.Request, status.Status, bool) {
		url := req.URL.String()
		for _, sel := range selectors {
			if sel.Pattern.MatchString(url) {
				token := base64.StdEncoding.EncodeToString([]byte(sel.Username + ":" + sel.Password))
				req.Header.Set("Authorization", "Basic "+token)
				break
			}
		}
		return req, status.Status{}, true
	}
}
