package cache

import (
	"context"
	"time"
)

// TTL defaults for the four key families below. Analysis results rarely
// change for the same input, so they are cached longer than rendered
// artifacts, which are cheaper to regenerate.
const (
	TTLCheck        = 24 * time.Hour
	TTLSubscription = 24 * time.Hour
	TTLProjection   = 24 * time.Hour
	TTLRender       = time.Hour
)

// Cache is the storage backend pkg/api's Runner caches results behind.
// Implementations: FileCache (default), NullCache (disabled),
// [github.com/matzehuels/swarmcheck/pkg/runcache.Cache] (Redis, selected by
// the "redis" cache backend).
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys for the four families of cacheable results
// pkg/api produces. protocolsHash is the SHA-256 hash ([Hash]) of the
// canonical encoding of the InterfacingProtocols under analysis.
type Keyer interface {
	// RunKey identifies a Check result for a role-less whole-swarm pass
	// (e.g. check_composed_swarm), namespaced by op.
	RunKey(op, protocolsHash string) string
	// SubscriptionKey identifies an exact or overapproximated subscription
	// inference result.
	SubscriptionKey(protocolsHash string, opts SubscriptionKeyOpts) string
	// ProjectionKey identifies a projection or project_combine result for a
	// single role.
	ProjectionKey(protocolsHash string, opts ProjectionKeyOpts) string
	// RenderKey identifies a rendered DOT/SVG/PDF/PNG artifact derived from
	// an already-computed graph hash.
	RenderKey(graphHash string, opts RenderKeyOpts) string
}

// SubscriptionKeyOpts distinguishes subscription cache entries that share a
// protocolsHash but differ in how the subscription was derived.
type SubscriptionKeyOpts struct {
	Role        string
	Granularity string
	Exact       bool
}

// ProjectionKeyOpts distinguishes projection cache entries that share a
// protocolsHash but differ in role or projection parameters.
type ProjectionKeyOpts struct {
	Role     string
	Minimize bool
	Combine  bool
}

// RenderKeyOpts distinguishes rendered-artifact cache entries.
type RenderKeyOpts struct {
	Format string // "dot", "svg", "pdf", "png"
	Kind   string // "protocol" or "machine"
}

// DefaultKeyer builds unscoped, hash-based keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default, unscoped [Keyer].
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

func (k *DefaultKeyer) RunKey(op, protocolsHash string) string {
	return hashKey("run:"+op, protocolsHash)
}

func (k *DefaultKeyer) SubscriptionKey(protocolsHash string, opts SubscriptionKeyOpts) string {
	return hashKey("sub", protocolsHash, opts)
}

func (k *DefaultKeyer) ProjectionKey(protocolsHash string, opts ProjectionKeyOpts) string {
	return hashKey("proj", protocolsHash, opts)
}

func (k *DefaultKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return hashKey("render", graphHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
