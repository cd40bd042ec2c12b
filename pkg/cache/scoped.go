package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants can share one
// backend without seeing each other's entries.
//
// Example usage:
//
//	// Per-client keys on a shared Redis
//	clientKeyer := NewScopedKeyer(NewDefaultKeyer(), "client:abc123:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DeckKey generates a prefixed deck key.
func (k *ScopedKeyer) DeckKey(deckHash string) string {
	return k.prefix + k.inner.DeckKey(deckHash)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(deckHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(deckHash, opts)
}
