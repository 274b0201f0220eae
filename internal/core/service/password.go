package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is fixed at build time.
const hashCost = bcrypt.DefaultCost

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

var errPasswordLength = errors.New("password must be between 1 and 72 bytes")

// BcryptHasher implements ports.PasswordHasher with a salted adaptive hash.
type BcryptHasher struct{}

func NewBcryptHasher() BcryptHasher { return BcryptHasher{} }

// Hash returns a freshly salted digest; hashing the same plaintext twice
// yields different digests.
func (BcryptHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) == 0 || len(plaintext) > maxPasswordBytes {
		return "", errPasswordLength
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), hashCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext hashes to digest. A malformed digest never
// verifies. Plaintexts longer than maxPasswordBytes can never have been
// hashed, so they fail after one comparison of their first bytes; bcrypt
// would otherwise ignore the tail and accept them.
func (BcryptHasher) Verify(plaintext, digest string) bool {
	if len(plaintext) > maxPasswordBytes {
		_ = bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext[:maxPasswordBytes]))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
