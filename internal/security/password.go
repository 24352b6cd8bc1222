// Package security provides password hashing and signed user tokens.
package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a salted bcrypt digest from a plaintext password.
// Each call salts freshly, so equal inputs yield distinct digests.
func HashPassword(password string) (string, error) {
	digest, errHash := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errHash != nil {
		return "", fmt.Errorf("hash password: %w", errHash)
	}
	return string(digest), nil
}

// CheckPassword reports whether the password matches the stored digest.
// Malformed digests report false rather than an error.
func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
