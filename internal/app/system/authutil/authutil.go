// internal/app/system/authutil/authutil.go
package authutil

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

// ErrPasswordRequired is returned when hashing an empty password.
var ErrPasswordRequired = errors.New("password is required")

// HashPassword returns the bcrypt hash of pw at the given cost.
// A cost outside bcrypt's accepted range falls back to DefaultCost.
func HashPassword(pw string, cost int) (string, error) {
	if pw == "" {
		return "", ErrPasswordRequired
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// CheckPassword reports whether pw matches hash. A malformed hash is a
// mismatch; callers cannot tell the two apart.
func CheckPassword(hash, pw string) bool {
	if hash == "" || pw == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// ConstantTimeEqual compares two secrets without leaking where they differ.
func ConstantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
