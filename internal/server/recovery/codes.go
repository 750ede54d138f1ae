package recovery

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/binary"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/docvault/internal/common"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
	"golang.org/x/time/rate"
)

// MaxAttempts wrong guesses drop a pending code.
const MaxAttempts = 5

type pendingCode struct {
	code    string
	expires time.Time
	misses  int
}

// Codes hands out six-digit codes keyed by account. Each code comes from a
// fresh HOTP secret and counter, so codes are not predictable from earlier
// ones.
type Codes struct {
	mu       sync.Mutex
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	pending  map[string]pendingCode
	limiters map[string]*rate.Limiter
}

// NewCodes keeps codes for ttl and allows one request per interval for each
// key. A zero interval disables throttling.
func NewCodes(ttl, interval time.Duration) *Codes {
	return &Codes{
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		pending:  make(map[string]pendingCode),
		limiters: make(map[string]*rate.Limiter),
	}
}

// Issue creates a code for key, replacing any earlier one. It returns
// common.ErrorThrottled when key asked too recently.
func (c *Codes) Issue(key string) (string, error) {
	key = normalizeKey(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !c.limiterLocked(key).AllowN(now, 1) {
		return "", common.ErrorThrottled
	}

	code, err := generateCode()
	if err != nil {
		return "", err
	}
	c.pending[key] = pendingCode{code: code, expires: now.Add(c.ttl)}
	return code, nil
}

// Verify checks code for key and consumes it on success. A wrong code
// leaves the pending one in place until MaxAttempts misses, after which it
// is dropped and a new one has to be issued.
func (c *Codes) Verify(key, code string) error {
	key = normalizeKey(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[key]
	if !ok {
		return common.ErrInvalidOTP
	}
	if !c.now().Before(p.expires) {
		delete(c.pending, key)
		return common.ErrOTPExpired
	}
	if subtle.ConstantTimeCompare([]byte(p.code), []byte(code)) != 1 {
		p.misses++
		if p.misses >= MaxAttempts {
			delete(c.pending, key)
		} else {
			c.pending[key] = p
		}
		return common.ErrInvalidOTP
	}
	delete(c.pending, key)
	return nil
}

// Forget drops the pending code of key.
func (c *Codes) Forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, normalizeKey(key))
}

func (c *Codes) limiterLocked(key string) *rate.Limiter {
	l, ok := c.limiters[key]
	if !ok {
		limit := rate.Inf
		if c.interval > 0 {
			limit = rate.Every(c.interval)
		}
		l = rate.NewLimiter(limit, 1)
		c.limiters[key] = l
	}
	return l
}

func generateCode() (string, error) {
	key, err := hotp.Generate(hotp.GenerateOpts{
		Issuer:      "DocVault",
		AccountName: "password-reset",
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		return "", err
	}

	var counter [8]byte
	if _, err := rand.Read(counter[:]); err != nil {
		return "", err
	}

	return hotp.GenerateCodeCustom(key.Secret(), binary.BigEndian.Uint64(counter[:]), hotp.ValidateOpts{
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
