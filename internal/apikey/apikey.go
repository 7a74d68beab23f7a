// Package apikey hashes and verifies admin API keys. Only the bcrypt hash
// of a key is ever configured on the server; the plaintext key lives with
// the operator.
package apikey

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

func Hash(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("api key is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether key matches the configured bcrypt hash.
func Verify(hash, key string) bool {
	if hash == "" || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}
