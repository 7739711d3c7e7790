package hostpool

import "net/http"

func newTestRequest() (*http.Request, error) {
	return http.NewRequest(http.MethodGet, "https://example.org/", nil)
}
