// Package client talks to the DocVault REST API.
//
// # Overview
//
// The package provides:
//  1. The API contract (see the Client interface): Login, LoginWithGoogle,
//     RequestOTP/ResendOTP, VerifyOTP, ResetPassword, Register,
//     GetUserDetails and DeleteUser.
//  2. A concrete net/http implementation (see HTTPClient). Every call is one
//     round trip with no retries and no caching.
//  3. Credentials, an http.RoundTripper that injects the bearer token and a
//     per-request X-Request-ID. Its lifetime is owned by the session layer;
//     nothing here mutates process-wide HTTP state.
//
// # Error Handling
//
// Rejections from the server are returned as *APIError, which carries the
// status code, message and the server's error list verbatim and wraps one of
// ErrInvalidCredentials, ErrInvalidOTP, ErrInvalidOrExpiredToken,
// ErrUnauthorized or ErrAPI. Transport failures wrap ErrNetwork; malformed
// bodies and a missing base URL wrap ErrUnexpected. Match with errors.Is and
// errors.As.
package client
