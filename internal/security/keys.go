package security

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomSecret returns n random bytes hex-encoded, for use as an ephemeral signing secret.
func RandomSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
