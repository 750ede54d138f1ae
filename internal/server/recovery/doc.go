// Package recovery issues the one-time codes and reset tokens of the
// password reset flow. Both are single use and expire; code requests are
// throttled per identifier.
package recovery
