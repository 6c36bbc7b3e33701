package users

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password the login form accepts.
const MinPasswordLength = 6

var errPasswordTooShort = errors.New("password must be at least 6 characters")

// ValidatePasswordLength rejects passwords shorter than MinPasswordLength.
func ValidatePasswordLength(password string) error {
	if len(password) < MinPasswordLength {
		return errPasswordTooShort
	}
	return nil
}

// HashPassword bcrypts a seeded account's password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether password matches a hash from HashPassword.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
