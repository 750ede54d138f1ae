package client

import (
	"net/http"
	"testing"

	"github.com/dmitrijs2005/docvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func recordingTransport(seen **http.Request) http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		*seen = r
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
	})
}

func TestCredentials_InjectsBearerWhenSet(t *testing.T) {
	var seen *http.Request
	c := NewCredentials(recordingTransport(&seen))

	req, _ := http.NewRequest(http.MethodGet, "http://example.test/x", nil)
	_, err := c.RoundTrip(req)
	require.NoError(t, err)
	assert.Empty(t, seen.Header.Get(common.AuthorizationHeaderName))

	c.Set("t1")
	_, err = c.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, "Bearer t1", seen.Header.Get(common.AuthorizationHeaderName))
	assert.Equal(t, "Bearer t1", c.Header())

	c.Clear()
	_, err = c.RoundTrip(req)
	require.NoError(t, err)
	assert.Empty(t, seen.Header.Get(common.AuthorizationHeaderName))
	assert.Empty(t, c.Token())
	assert.Empty(t, c.Header())
}

func TestCredentials_DoesNotMutateCallerRequest(t *testing.T) {
	var seen *http.Request
	c := NewCredentials(recordingTransport(&seen))
	c.Set("t1")

	req, _ := http.NewRequest(http.MethodGet, "http://example.test/x", nil)
	_, err := c.RoundTrip(req)
	require.NoError(t, err)

	assert.Empty(t, req.Header.Get(common.AuthorizationHeaderName))
	assert.Empty(t, req.Header.Get(common.RequestIDHeaderName))
	assert.NotSame(t, req, seen)
}

func TestCredentials_RequestID(t *testing.T) {
	var seen *http.Request
	c := NewCredentials(recordingTransport(&seen))

	req, _ := http.NewRequest(http.MethodGet, "http://example.test/x", nil)
	_, _ = c.RoundTrip(req)
	first := seen.Header.Get(common.RequestIDHeaderName)
	require.Len(t, first, 36)

	_, _ = c.RoundTrip(req)
	assert.NotEqual(t, first, seen.Header.Get(common.RequestIDHeaderName))

	req.Header.Set(common.RequestIDHeaderName, "fixed")
	_, _ = c.RoundTrip(req)
	assert.Equal(t, "fixed", seen.Header.Get(common.RequestIDHeaderName))
}

func TestCredentials_OverridesCallerAuthorization(t *testing.T) {
	var seen *http.Request
	c := NewCredentials(recordingTransport(&seen))

	req, _ := http.NewRequest(http.MethodGet, "http://example.test/x", nil)
	req.Header.Set(common.AuthorizationHeaderName, "Bearer stale")
	_, _ = c.RoundTrip(req)
	assert.Empty(t, seen.Header.Get(common.AuthorizationHeaderName))
}
