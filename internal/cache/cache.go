// Package cache provides translation result caching.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Cache is the interface for translation caches.
type Cache interface {
	// Get retrieves a cached translation. Returns empty string and
	// false if not found or expired.
	Get(key string) (string, bool)

	// Set stores a translation.
	Set(key, value string) error
}

// Key builds a cache key from the trimmed text's SHA-256 hash and the
// two language codes, so identical phrases share an entry regardless of
// surrounding whitespace.
func Key(text, sourceCode, targetCode string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(hash[:]) + ":" + sourceCode + ":" + targetCode
}
