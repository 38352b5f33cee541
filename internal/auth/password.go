// Package auth provides password hashing and bearer-token handling.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when the configured cost is
// out of bcrypt's supported range.
const DefaultBcryptCost = 10

// ErrHashFailure indicates the stored hash could not be processed.
// Callers treat this as an internal error, never a credential mismatch.
var ErrHashFailure = errors.New("password hash failure")

// HashPassword derives a salted one-way hash of password at the given cost.
// The salt is embedded in the returned hash string.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", ErrHashFailure
	}

	return string(hash), nil
}

// VerifyPassword checks password against a stored hash.
// Comparison is constant-time inside bcrypt. A malformed hash is reported
// as ErrHashFailure; a plain mismatch is (false, nil).
func VerifyPassword(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, ErrHashFailure
}
