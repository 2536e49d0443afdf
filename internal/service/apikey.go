package service

import (
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// NewAPIKey returns a fresh opaque credential.
func NewAPIKey() string {
	return uuid.NewString()
}

// HashAPIKey is the digest stored in place of the key itself. Lookups hash the
// presented key and compare digests.
func HashAPIKey(key string) string {
	sum := blake2b.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
