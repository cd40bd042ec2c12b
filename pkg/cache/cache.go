// Package cache stores rendered deck artifacts.
//
// Rendering a deck is deterministic: the same deck tree always produces
// the same bytes. The pipeline hashes the canonical JSON form of an
// assembled deck and uses the hash to key per-format artifacts, so
// rebuilding an unchanged script skips rendering entirely.
//
// Three backends implement [Cache]:
//
//   - [NullCache] stores nothing (caching disabled)
//   - [FileCache] stores entries under a directory, used by the CLI
//   - [RedisCache] stores entries in Redis, used by the HTTP server
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a byte store with per-entry expiry. Implementations must be
// safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Default entry lifetimes.
const (
	TTLDeck     = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// ArtifactKeyOpts holds the render options that change artifact bytes.
type ArtifactKeyOpts struct {
	Format  string `json:"format"`
	Title   string `json:"title,omitempty"`
	Creator string `json:"creator,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// DeckKey keys the canonical JSON of an assembled deck.
	DeckKey(deckHash string) string

	// ArtifactKey keys a rendered artifact by deck hash and render options.
	ArtifactKey(deckHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DeckKey returns "deck:<deckHash>".
func (k *DefaultKeyer) DeckKey(deckHash string) string {
	return fmt.Sprintf("deck:%s", deckHash)
}

// ArtifactKey returns "artifact:<hash of deck hash and options>".
func (k *DefaultKeyer) ArtifactKey(deckHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", deckHash, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "prefix:<sha256 of the JSON-encoded parts>".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// NullCache never stores anything. Every Get is a miss.
type NullCache struct{}

// NewNullCache returns a cache that disables caching.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
