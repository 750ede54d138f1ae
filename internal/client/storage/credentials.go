package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/docvault/internal/common"
	"github.com/dmitrijs2005/docvault/internal/dbx"
)

// ErrNoCredentials means at least one of the two session keys is absent.
var ErrNoCredentials = errors.New("no stored credentials")

// StoredCredentials is the raw persisted session: the bearer token and the
// serialized user record.
type StoredCredentials struct {
	Token string
	User  []byte
}

// CredentialRepository persists the session pair under
// common.StorageKeyAuthToken and common.StorageKeyCurrentUser.
type CredentialRepository struct {
	db *sql.DB
}

func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Save writes both keys in one transaction.
func (r *CredentialRepository) Save(ctx context.Context, token string, user []byte) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.StorageKeyAuthToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.StorageKeyCurrentUser, user)
	})
}

// Load reads both keys. It returns ErrNoCredentials unless both are present
// and non-empty.
func (r *CredentialRepository) Load(ctx context.Context) (*StoredCredentials, error) {
	repo := NewSQLiteRepository(r.db)

	token, err := repo.Get(ctx, common.StorageKeyAuthToken)
	if err != nil {
		return nil, err
	}
	user, err := repo.Get(ctx, common.StorageKeyCurrentUser)
	if err != nil {
		return nil, err
	}
	if len(token) == 0 || len(user) == 0 {
		return nil, ErrNoCredentials
	}
	return &StoredCredentials{Token: string(token), User: user}, nil
}

// Clear deletes exactly the two session keys in one transaction. Every other
// key in the table survives.
func (r *CredentialRepository) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return NewSQLiteRepository(tx).Delete(ctx, common.StorageKeyAuthToken, common.StorageKeyCurrentUser)
	})
}
