// Package cli provides the interactive DocVault command-line client.
//
// It wires configuration, the local session database, the API client and
// the session store, restores any persisted session, and then either runs a
// single command or an interactive REPL. Screens of the web client become
// named routes; every navigation goes through the route guards, and a
// redirect is printed rather than silently applied.
//
// Key features:
//   - Login (password or Google ID token) / Logout
//   - Register, whoami, delete-account
//   - Three-step password reset with OTP resend cooldown
//   - goto <route> with public/protected guards
//
// Notifications are single lines prefixed with ✓ or ✗. Logs go to the
// injected logger, never to the notification stream.
package cli
