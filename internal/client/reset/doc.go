// Package reset implements the three-step password-reset wizard:
// identify (request a one-time code), verify (exchange the code for a reset
// token) and finalize (set the new password with that token).
//
// The wizard only advances on a successful API response and never skips a
// step. Each network call runs under a context derived from the wizard's
// lifetime; Back cancels the call of the step being left and Close cancels
// everything. A response that arrives after either is dropped with ErrStale
// and does not touch the state.
package reset
