package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ResetTokenBytes is the entropy of a password reset token before encoding.
const ResetTokenBytes = 20

// GenerateResetToken creates a cryptographically secure password reset
// token. The raw hex token is what gets mailed to the user; only the
// SHA-256 digest is stored, so a database leak does not expose live
// reset tokens.
func GenerateResetToken() (token, digest string, err error) {
	buf := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generating reset token: %w", err)
	}

	token = hex.EncodeToString(buf)
	return token, HashResetToken(token), nil
}

// HashResetToken returns the hex SHA-256 digest of a raw reset token,
// matching what GenerateResetToken stores.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
