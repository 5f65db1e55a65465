package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation,
// separating cache namespaces per caller.
//
// Example usage:
//
//	// Caller-specific keys
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
//
//	// Global keys
//	globalKeyer := NewDefaultKeyer()
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

// RunKey generates a prefixed key for whole-swarm check caching.
func (k *ScopedKeyer) RunKey(op, protocolsHash string) string {
	return k.prefix + k.inner.RunKey(op, protocolsHash)
}

// SubscriptionKey generates a prefixed key for subscription-inference caching.
func (k *ScopedKeyer) SubscriptionKey(protocolsHash string, opts SubscriptionKeyOpts) string {
	return k.prefix + k.inner.SubscriptionKey(protocolsHash, opts)
}

// ProjectionKey generates a prefixed key for projection caching.
func (k *ScopedKeyer) ProjectionKey(protocolsHash string, opts ProjectionKeyOpts) string {
	return k.prefix + k.inner.ProjectionKey(protocolsHash, opts)
}

// RenderKey generates a prefixed key for rendered-artifact caching.
func (k *ScopedKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(graphHash, opts)
}
