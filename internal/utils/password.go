package utils

import (
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is a var so tests can drop to bcrypt.MinCost.
var PasswordHashCost = 12

const MinPasswordLength = 6

var (
	upperRegex   = regexp.MustCompile(`[A-Z]`)
	lowerRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex   = regexp.MustCompile(`\d`)
	specialRegex = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// HashPassword generates a bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	return string(bytes), err
}

// CheckPasswordHash compares a plaintext password with a stored bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidatePasswordStrength returns a user-facing reason when the password is too weak.
func ValidatePasswordStrength(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return errors.New("Password must be at least 6 characters long")
	case !upperRegex.MatchString(password):
		return errors.New("Password must contain at least one uppercase letter")
	case !lowerRegex.MatchString(password):
		return errors.New("Password must contain at least one lowercase letter")
	case !digitRegex.MatchString(password):
		return errors.New("Password must contain at least one number")
	case !specialRegex.MatchString(password):
		return errors.New("Password must contain at least one special character")
	}
	return nil
}
