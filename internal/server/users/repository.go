package users

import (
	"context"
)

// Repository stores accounts. Lookups that find nothing return
// common.ErrorNotFound; a clashing username or email on Create returns
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// GetByLogin matches the username exactly or the email case-insensitively.
	GetByLogin(ctx context.Context, login string) (*User, error)
	UpdatePassword(ctx context.Context, id string, hash, salt []byte) error
	Delete(ctx context.Context, id string) error
}
