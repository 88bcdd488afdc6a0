package cache

// ScopedKeyer wraps a Keyer with a prefix so separate projects or test runs
// can share one cache directory without key collisions.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "project:mural:")
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

// SegmentKey generates a prefixed key for segmentation caching.
func (k *ScopedKeyer) SegmentKey(imageHash string, opts SegmentKeyOpts) string {
	return k.prefix + k.inner.SegmentKey(imageHash, opts)
}

// QuantizeKey generates a prefixed key for quantization caching.
func (k *ScopedKeyer) QuantizeKey(segmentHash string, opts QuantizeKeyOpts) string {
	return k.prefix + k.inner.QuantizeKey(segmentHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(resultHash, opts)
}
