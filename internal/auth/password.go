package auth

import (
	"errors"

	"github.com/GehirnInc/crypt"
	"github.com/GehirnInc/crypt/md5_crypt"
	"github.com/GehirnInc/crypt/sha256_crypt"
	"github.com/GehirnInc/crypt/sha512_crypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials or role mismatch")

// HashPassword derives a one-way sha512-crypt hash with a random salt.
func HashPassword(password string) (string, error) {
	return sha512_crypt.New().Generate([]byte(password), nil)
}

// VerifyPassword reports whether password matches hash.
// Supported formats: $6$ (sha512-crypt), $5$ (sha256-crypt), $1$ (md5-crypt).
func VerifyPassword(hash, password string) bool {
	var crypters []crypt.Crypter
	crypters = append(crypters, sha512_crypt.New())
	crypters = append(crypters, sha256_crypt.New())
	crypters = append(crypters, md5_crypt.New())

	// Verify returns nil on success.
	for _, c := range crypters {
		if err := c.Verify(hash, []byte(password)); err == nil {
			return true
		}
	}
	return false
}
