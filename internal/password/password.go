// Package password wraps bcrypt hashing and verification of user passwords.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashCost keeps a single hash in the tens of milliseconds on commodity
// hardware. The encoded hash embeds the cost and salt, so raising it later
// does not invalidate existing hashes.
const hashCost = 12

// Hash returns the bcrypt encoding of password.
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// Verify reports whether password matches the stored hash. Malformed hashes
// verify as false rather than erroring.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
