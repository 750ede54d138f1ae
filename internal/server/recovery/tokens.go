package recovery

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/docvault/internal/common"
)

type pendingToken struct {
	userID  string
	expires time.Time
}

// Tokens hands out reset tokens that allow one password change each.
type Tokens struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	pending map[string]pendingToken
}

func NewTokens(ttl time.Duration) *Tokens {
	return &Tokens{ttl: ttl, now: time.Now, pending: make(map[string]pendingToken)}
}

// TTL is the lifetime of new tokens.
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue creates a token for userID.
func (t *Tokens) Issue(userID string) (string, error) {
	token, err := common.MakeRandHexString(32)
	if err != nil {
		return "", err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[token] = pendingToken{userID: userID, expires: t.now().Add(t.ttl)}
	return token, nil
}

// Consume returns the account of token and invalidates it. Unknown and
// spent tokens yield common.ErrInvalidToken, stale ones
// common.ErrTokenExpired.
func (t *Tokens) Consume(token string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.pending[token]
	if !ok {
		return "", common.ErrInvalidToken
	}
	delete(t.pending, token)
	if !t.now().Before(p.expires) {
		return "", common.ErrTokenExpired
	}
	return p.userID, nil
}
