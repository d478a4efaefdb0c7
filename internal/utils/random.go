package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// opaqueTokenBytes is the entropy of opaque tokens (sessions, password reset,
// email verification): 256 bits.
const opaqueTokenBytes = 32

// GenerateOpaqueToken returns a random, URL-safe token. These tokens are
// server-visible handles, independent of the signed JWTs.
func GenerateOpaqueToken() (string, error) {
	buf := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
