package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis or MongoDB without reading each other's entries.
//
// Example usage:
//
//	// Staging and production on the same Redis
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(smiles string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(smiles, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

// RenderKey generates a prefixed key for stored renders.
func (k *ScopedKeyer) RenderKey(id string) string {
	return k.prefix + k.inner.RenderKey(id)
}
