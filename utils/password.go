package utils

import (
	"errors"

	"github.com/matthewhartstonge/argon2"
)

var ErrNoPasswordHash = errors.New("no password hash configured")

func HashPassword(password string) (string, error) {
	argon := argon2.DefaultConfig()
	encoded, err := argon.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// VerifyPassword checks password against an argon2 encoded hash. An empty
// hash never matches.
func VerifyPassword(encodedHash, password string) (bool, error) {
	if encodedHash == "" {
		return false, ErrNoPasswordHash
	}
	return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
}
