// Package security provides password hashing and strength validation.
package security

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// passwordSymbols is the fixed punctuation set a password must draw its
// special character from.
const passwordSymbols = "@$!%*?&"

const bcryptCost = 10

// HashPassword hashes a plaintext password with bcrypt. The salt is
// random, so the same plaintext yields a different digest on every call.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt digest.
// A mismatch returns (false, nil); only a malformed digest returns an error.
func VerifyPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// ValidatePassword reports whether a password is at least eight
// characters long and contains at least one lowercase letter, one
// uppercase letter, one digit and one symbol from @$!%*?&.
func ValidatePassword(password string) bool {
	if len(password) < MinPasswordLength {
		return false
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	return hasLower && hasUpper && hasDigit && hasSymbol
}
