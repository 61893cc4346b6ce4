package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// RandomHex returns n random bytes hex-encoded.
func RandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// PrefixedToken returns prefix followed by n random bytes in hex.
func PrefixedToken(prefix string, n int) (string, error) {
	body, err := RandomHex(n)
	if err != nil {
		return "", err
	}
	return prefix + body, nil
}
