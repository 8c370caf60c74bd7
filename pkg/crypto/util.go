package crypto

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomBytes returns n cryptographically-secure random bytes.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// GenerateSecret returns a new random secret suitable for encrypting a bot
// file: 32 random bytes, base64-encoded.
func GenerateSecret() (string, error) {
	b, err := RandomBytes(32)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
