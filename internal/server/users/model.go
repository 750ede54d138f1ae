// Package users holds the account record of the reference server and its
// storage.
package users

import "time"

// User is a stored account. PasswordHash and Salt are empty for accounts
// created through Google sign-in until a password is set.
type User struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	PasswordHash []byte
	Salt         []byte
	CreatedAt    time.Time
}

// Clone returns a copy that shares no byte slices with u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	c.Salt = append([]byte(nil), u.Salt...)
	return &c
}
