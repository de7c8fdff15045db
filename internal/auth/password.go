package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrWrongPassword indicates a password/hash mismatch.
var ErrWrongPassword = errors.New("auth: wrong password")

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string, cost int) ([]byte, error) {
	if password == "" {
		return nil, errors.New("auth: empty password")
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return bcrypt.GenerateFromPassword([]byte(password), cost)
}

// ComparePassword checks a plaintext password against a bcrypt hash.
func ComparePassword(hash []byte, password string) error {
	if len(hash) == 0 {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrWrongPassword
		}
		return err
	}
	return nil
}
