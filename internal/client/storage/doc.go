// Package storage is the durable client-side storage of the DocVault CLI.
//
// It opens a local SQLite database, applies the embedded goose migrations,
// and exposes a small key/value Repository over the kv table. The session
// credentials live under two keys of that table; CredentialRepository
// writes and deletes them together in a single transaction so the pair is
// never half present.
package storage
