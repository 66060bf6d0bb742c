package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// opaqueTokenBytes is the entropy of a verification or reset token;
// hex encoding doubles it to 64 characters on the wire.
const opaqueTokenBytes = 32

// GenerateOpaqueToken returns a fixed-length random string used only
// for lookup and equality. The source must stay crypto/rand; the
// store's unique index on the token column is the collision backstop,
// not a substitute for unguessability.
func GenerateOpaqueToken() (string, error) {
	buf := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
