// Package common defines shared constants and sentinel errors used across
// client and server layers of DocVault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// One-time code errors.
	ErrInvalidOTP = errors.New("invalid otp")
	ErrOTPExpired = errors.New("otp expired")
)

// ErrValidation marks user input rejected before any network call.
var ErrValidation = errors.New("validation failed")

// Server-side request outcomes.
var (
	ErrorAlreadyExists = errors.New("already exists")
	ErrorForbidden     = errors.New("forbidden")
	ErrorThrottled     = errors.New("too many requests")
)
