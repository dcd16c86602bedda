package usecase

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// Fingerprint derives the cache key for a search.
// Category and color are trimmed and lower-cased; location is deliberately not part of the key.
func Fingerprint(category, color string) string {
	key := normalizeKeyPart(category) + "|" + normalizeKeyPart(color)
	sum := sha1.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

func normalizeKeyPart(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
