// Package cache keeps fetched report documents so repeated checks of the
// same URL skip the network.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Document is a fetched report body and its transport metadata
type Document struct {
	Body        []byte    `json:"body"`
	ContentType string    `json:"content_type"`
	FinalURL    string    `json:"final_url"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Cache stores documents by key. A zero ttl selects the store default.
type Cache interface {
	Get(key string) (*Document, bool)
	Set(key string, doc *Document, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for a document URL
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "proofline:doc:v1:" + hex.EncodeToString(hash[:])
}
