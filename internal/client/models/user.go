// Package models defines client-side data models used by the DocVault CLI.
package models

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrIncorrectUser is returned when a serialized user record cannot be used.
var ErrIncorrectUser = errors.New("incorrect user record")

// User is the account record returned by the API and kept in the session.
// ID is opaque to the client; the remaining fields are for display.
type User struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// DisplayName picks the friendliest non-empty name.
func (u *User) DisplayName() string {
	switch {
	case u == nil:
		return ""
	case strings.TrimSpace(u.FullName) != "":
		return u.FullName
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}

// Clone returns an independent copy, nil-safe.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// MarshalUser serializes u for durable storage.
func MarshalUser(u *User) ([]byte, error) {
	if u == nil {
		return nil, ErrIncorrectUser
	}
	return json.Marshal(u)
}

// UnmarshalUser parses a stored user record. JSON null, an empty object, and
// a record without any identifying field are all rejected.
func UnmarshalUser(data []byte) (*User, error) {
	var u *User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, errors.Join(ErrIncorrectUser, err)
	}
	if u == nil || (u.ID == "" && u.Username == "" && u.Email == "") {
		return nil, ErrIncorrectUser
	}
	return u, nil
}
