// Package cache provides the layered response cache the harvester uses to
// make re-runs cheap against the archive host.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte-blob cache with per-entry TTL.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from a URL. The version segment invalidates
// everything when the on-disk entry format changes.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "km:v1:" + hex.EncodeToString(hash[:])
}
