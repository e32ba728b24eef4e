package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// ActivationTokenBytes is the amount of randomness in an activation token.
// The hex form is twice as long.
const ActivationTokenBytes = 16

// GenerateActivationToken returns a random opaque token, hex encoded
func GenerateActivationToken() (string, error) {
	buf := make([]byte, ActivationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// GenerateHexID returns a random UUID without hyphens
func GenerateHexID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
