// Package extractor pulls caller identity out of HTTP requests. Session
// verification itself lives upstream; by the time a request reaches this
// service the gateway has already resolved the user and forwarded the id.
package extractor

import (
	"net/http"
	"strings"
)

type Extractor interface {
	GetFirst(r *http.Request, name string) string
	GetUserID(r *http.Request) string
}

type extractor struct{}

func New() Extractor {
	return &extractor{}
}

func (t *extractor) GetFirst(r *http.Request, name string) string {
	values := r.Header.Values(name)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// GetUserID returns the forwarded user id, or the userId query parameter
// for callers that cannot set headers. Empty means anonymous.
func (t *extractor) GetUserID(r *http.Request) string {
	if id := t.GetFirst(r, UserID); id != "" {
		return id
	}
	return strings.TrimSpace(r.URL.Query().Get("userId"))
}
