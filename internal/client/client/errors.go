package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidOTP            = errors.New("invalid otp")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrAPI                   = errors.New("api error")

	// ErrNetwork means no response was received.
	ErrNetwork = errors.New("no response received from server")
	// ErrUnexpected covers malformed responses and client misconfiguration.
	ErrUnexpected = errors.New("unexpected response from server")
)

// APIError is a rejection reported by the server, either a non-2xx status
// or a 2xx body with success=false.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []string

	kind error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && len(e.Errors) > 0 {
		msg = strings.Join(e.Errors, "; ")
	}
	if msg == "" {
		msg = StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s (%d): %s", e.kind, e.StatusCode, msg)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// Messages returns what should be shown to the user: the server's error list
// verbatim when present, otherwise its message, otherwise the status bucket.
func (e *APIError) Messages() []string {
	if len(e.Errors) > 0 {
		return append([]string(nil), e.Errors...)
	}
	if e.Message != "" {
		return []string{e.Message}
	}
	return []string{StatusText(e.StatusCode)}
}

// StatusText buckets an HTTP status for display.
func StatusText(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "Bad request"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "Not found"
	case http.StatusInternalServerError:
		return "Internal server error"
	default:
		return "Unexpected error"
	}
}

// Messages converts any error returned by this package into display lines.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Messages()
	case errors.Is(err, ErrNetwork):
		return []string{"No response received from server."}
	case errors.Is(err, ErrUnexpected):
		return []string{"Unexpected response from server."}
	default:
		return []string{err.Error()}
	}
}

// FirstMessage is the line recorded as the inline login error.
func FirstMessage(err error) string {
	msgs := Messages(err)
	if len(msgs) == 0 {
		return ""
	}
	return msgs[0]
}
