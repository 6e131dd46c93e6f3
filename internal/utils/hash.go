package utils

import (
	"crypto/sha256"
	"encoding/base64"
)

// HashToken is the storage key for a raw bearer token.
func HashToken(raw string) string {
	hasher := sha256.New()
	hasher.Write([]byte(raw))
	return base64.URLEncoding.EncodeToString(hasher.Sum(nil))
}
