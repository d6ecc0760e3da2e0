// Package hash wraps bcrypt for account passwords.
package hash

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrTooLong is returned for passwords bcrypt would silently truncate.
var ErrTooLong = errors.New("password must be at most 72 bytes")

// Cost is the bcrypt work factor. Tests lower it.
var Cost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrTooLong
	}
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether password matches the stored hash.
// A malformed hash never matches.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
