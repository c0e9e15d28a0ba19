// Package cache keeps fetched history pages so repeated scrapes of the same
// session do not hit the legislature's server again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores page bodies by key
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a page URL
func Key(pageURL string) string {
	hash := sha256.Sum256([]byte(pageURL))
	return "billhist:v1:" + hex.EncodeToString(hash[:])
}
