// Package common contains shared constants and sentinel errors used across
// DocVault components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer credential on
// authenticated requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header value.
const BearerPrefix = "Bearer "

// RequestIDHeaderName correlates client and server log lines for one request.
const RequestIDHeaderName = "X-Request-ID"

// APIPrefix is the path prefix of every REST endpoint.
const APIPrefix = "/api/v1"

// Durable storage keys holding the persisted session. Both are always written
// and cleared together.
const (
	StorageKeyAuthToken   = "authToken"
	StorageKeyCurrentUser = "currentUser"
)

// OTPTypePasswordReset is the otp_type sent when verifying a reset code.
const OTPTypePasswordReset = "password_reset"

// OTPLength is the number of digits in a one-time code.
const OTPLength = 6

// MinPasswordLength is the shortest password accepted by the reset flow.
const MinPasswordLength = 8
