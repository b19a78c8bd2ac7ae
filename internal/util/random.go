package util

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomString returns n URL-safe characters from crypto/rand.
func RandomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	b := make([]byte, base64.RawURLEncoding.DecodedLen(n)+1)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
