package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost matches Moodle's default password hashing cost
const BcryptCost = 10

// HashPassword hashes a password the way Moodle stores it
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword verifies a password against a Moodle user.password value.
// Only bcrypt hashes ($2y$, $2a$, $2b$) are accepted.
func CheckPassword(hashedPassword, password string) bool {
	if !IsBcryptHash(hashedPassword) {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// IsBcryptHash reports whether a stored hash is one CheckPassword can verify
func IsBcryptHash(hash string) bool {
	return strings.HasPrefix(hash, "$2y$") || strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$")
}
