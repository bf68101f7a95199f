package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"sort"
	"time"
)

var (
	// ErrNetwork is returned when a request cannot be completed or the
	// upstream answers with a non-OK status.
	ErrNetwork = errors.New("network error")

	// ErrMalformedResponse is returned when a response body is not the JSON
	// shape the client expects.
	ErrMalformedResponse = errors.New("malformed response")
)

// NewHTTPClient creates an HTTP client. A zero timeout means requests may
// wait indefinitely, which matches browser fetch semantics.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// BuildURL appends the sorted query params to base.
func BuildURL(base string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := url.Values{}
	for _, k := range keys {
		q.Set(k, params[k])
	}
	return base + "?" + q.Encode()
}
