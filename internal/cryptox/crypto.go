// Package cryptox derives and checks password hashes with argon2id.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/docvault/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of the random salt stored next to each hash.
const SaltSize = 16

// DeriveKey stretches password with salt using argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// HashPassword derives a hash of password under a fresh random salt.
func HashPassword(password []byte) (hash, salt []byte) {
	salt = common.GenerateRandByteArray(SaltSize)
	return DeriveKey(password, salt), salt
}

// VerifyPassword reports whether password matches hash under salt. The
// comparison runs in constant time.
func VerifyPassword(password, salt, hash []byte) bool {
	if len(salt) == 0 || len(hash) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(DeriveKey(password, salt), hash) == 1
}
