package password

import (
	"crypto/rand"
	"encoding/hex"
)

// newResetToken genera un token de reset aleatorio (32 bytes, hex).
func newResetToken() string {
	var b [32]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
