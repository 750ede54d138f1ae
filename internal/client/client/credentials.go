package client

import (
	"net/http"
	"sync"

	"github.com/dmitrijs2005/docvault/internal/common"
	"github.com/google/uuid"
)

// Credentials decorates an http.RoundTripper with the session's bearer token.
// The token is set on login or restore and cleared on logout; the zero token
// sends no Authorization header. Every request also gets an X-Request-ID
// unless the caller set one.
type Credentials struct {
	mu    sync.RWMutex
	token string
	next  http.RoundTripper
}

// NewCredentials wraps next, or http.DefaultTransport when next is nil.
func NewCredentials(next http.RoundTripper) *Credentials {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Credentials{next: next}
}

func (c *Credentials) Set(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Credentials) Clear() {
	c.Set("")
}

func (c *Credentials) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Header returns the Authorization value that would be sent, or "".
func (c *Credentials) Header() string {
	tok := c.Token()
	if tok == "" {
		return ""
	}
	return common.BearerPrefix + tok
}

// RoundTrip implements http.RoundTripper. The request is cloned; the
// caller's headers are never modified.
func (c *Credentials) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())

	r.Header.Del(common.AuthorizationHeaderName)
	if h := c.Header(); h != "" {
		r.Header.Set(common.AuthorizationHeaderName, h)
	}
	if r.Header.Get(common.RequestIDHeaderName) == "" {
		r.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	}

	return c.next.RoundTrip(r)
}
