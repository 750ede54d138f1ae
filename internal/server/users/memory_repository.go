package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/docvault/internal/common"
	"github.com/google/uuid"
)

// MemoryRepository keeps accounts in process memory. Returned users are
// copies.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*User
	clock func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*User), clock: time.Now}
}

func (r *MemoryRepository) Create(ctx context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Username == user.Username || (user.Email != "" && strings.EqualFold(u.Email, user.Email)) {
			return nil, common.ErrorAlreadyExists
		}
	}

	stored := user.Clone()
	stored.ID = uuid.NewString()
	stored.CreatedAt = r.clock().UTC()
	r.byID[stored.ID] = stored
	return stored.Clone(), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u.Clone(), nil
}

func (r *MemoryRepository) GetByLogin(ctx context.Context, login string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Username == login || (u.Email != "" && strings.EqualFold(u.Email, login)) {
			return u.Clone(), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) UpdatePassword(ctx context.Context, id string, hash, salt []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = append([]byte(nil), hash...)
	u.Salt = append([]byte(nil), salt...)
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}
