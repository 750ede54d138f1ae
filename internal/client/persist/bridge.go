// Package persist keeps the in-memory session, the bearer credential and the
// durable credential pair in agreement.
//
// Restore runs once at startup. Persist is the write side of a successful
// login. Clear is logout: storage first, then memory, so a failed delete
// never leaves storage holding credentials the process has forgotten.
package persist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/docvault/internal/client/client"
	"github.com/dmitrijs2005/docvault/internal/client/models"
	"github.com/dmitrijs2005/docvault/internal/client/session"
	"github.com/dmitrijs2005/docvault/internal/client/storage"
	"github.com/dmitrijs2005/docvault/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// CredentialStore is the durable side of the session.
type CredentialStore interface {
	Save(ctx context.Context, token string, user []byte) error
	Load(ctx context.Context) (*storage.StoredCredentials, error)
	Clear(ctx context.Context) error
}

type Bridge struct {
	mu          sync.Mutex
	repo        CredentialStore
	store       *session.Store
	creds       *client.Credentials
	log         logging.Logger
	now         func() time.Time
	unsubscribe func()
}

// NewBridge ties creds to store: any transition that leaves the session
// without a user drops the bearer token.
func NewBridge(repo CredentialStore, store *session.Store, creds *client.Credentials, log logging.Logger) *Bridge {
	b := &Bridge{
		repo:  repo,
		store: store,
		creds: creds,
		log:   log,
		now:   time.Now,
	}
	b.unsubscribe = store.Subscribe(func(_, next session.State) {
		if !next.IsAuthenticated() {
			creds.Clear()
		}
	})
	return b
}

// Close detaches the bridge from the store.
func (b *Bridge) Close() {
	b.unsubscribe()
}

// Restore loads the persisted session into the store and reports whether it
// did. It never fails: missing, partial or corrupt storage leaves the
// session anonymous. A JWT whose exp has passed is deleted from storage.
func (b *Bridge) Restore(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	stored, err := b.repo.Load(ctx)
	if errors.Is(err, storage.ErrNoCredentials) {
		b.log.Debug(ctx, "no persisted session")
		return false
	}
	if err != nil {
		b.log.Warn(ctx, "failed to read persisted session", "err", err)
		return false
	}

	user, err := models.UnmarshalUser(stored.User)
	if err != nil {
		b.log.Warn(ctx, "persisted user record is unusable", "err", err)
		return false
	}

	if tokenExpired(stored.Token, b.now()) {
		b.log.Info(ctx, "persisted token expired, discarding", "user", user.Username)
		if err := b.repo.Clear(ctx); err != nil {
			b.log.Warn(ctx, "failed to discard expired session", "err", err)
		}
		return false
	}

	b.creds.Set(stored.Token)
	if err := b.store.Succeed(user); err != nil {
		b.creds.Clear()
		b.log.Warn(ctx, "session not restored", "err", err)
		return false
	}

	b.log.Info(ctx, "session restored", "user", user.Username)
	return true
}

// Persist writes token and user in one transaction, then arms the
// credential. The store transition is the caller's.
func (b *Bridge) Persist(ctx context.Context, token string, user *models.User) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := models.MarshalUser(user)
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	if err := b.repo.Save(ctx, token, data); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	b.creds.Set(token)
	return nil
}

// Refresh stores a fresher copy of the signed-in user next to the current
// token and updates the session. Storage is written first, so a failed
// write leaves memory unchanged too.
func (b *Bridge) Refresh(ctx context.Context, user *models.User) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	token := b.creds.Token()
	if token == "" || !b.store.IsAuthenticated() {
		return fmt.Errorf("refresh session: %w", session.ErrInvalidTransition)
	}
	data, err := models.MarshalUser(user)
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	if err := b.repo.Save(ctx, token, data); err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	return b.store.Refresh(user)
}

// Clear deletes the persisted pair, then drops the credential and the
// session. If the delete fails nothing in memory changes.
func (b *Bridge) Clear(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	b.creds.Clear()
	b.store.Clear()
	return nil
}

// tokenExpired reports whether token is a JWT with an exp in the past.
// Opaque tokens never expire here; the server is the authority.
func tokenExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.Time.After(now)
}
