// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about analysis passes and cache
// operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core analyzer dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetAnalysisHooks(&myAnalysisHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Analysis().OnIngestStart(ctx, protoName)
//	// ... ingest ...
//	observability.Analysis().OnIngestComplete(ctx, protoName, nodeCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Analysis Hooks
// =============================================================================

// AnalysisHooks receives events from the swarm-protocol analysis pipeline.
// These are diagnostic spans and must remain side observations only —
// hooks must never influence the result of a pass.
type AnalysisHooks interface {
	// Ingest events
	OnIngestStart(ctx context.Context, proto string)
	OnIngestComplete(ctx context.Context, proto string, nodeCount int, duration time.Duration, err error)

	// Subscription inference events
	OnSubscriptionInferStart(ctx context.Context, strategy string)
	OnSubscriptionInferComplete(ctx context.Context, strategy string, duration time.Duration, err error)

	// Projection events
	OnProjectStart(ctx context.Context, role string)
	OnProjectComplete(ctx context.Context, role string, stateCount int, duration time.Duration, err error)

	// Composition events
	OnComposeStart(ctx context.Context, protoCount int)
	OnComposeComplete(ctx context.Context, protoCount int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopAnalysisHooks is a no-op implementation of AnalysisHooks.
type NoopAnalysisHooks struct{}

func (NoopAnalysisHooks) OnIngestStart(context.Context, string)                                {}
func (NoopAnalysisHooks) OnIngestComplete(context.Context, string, int, time.Duration, error)  {}
func (NoopAnalysisHooks) OnSubscriptionInferStart(context.Context, string)                     {}
func (NoopAnalysisHooks) OnSubscriptionInferComplete(context.Context, string, time.Duration, error) {
}
func (NoopAnalysisHooks) OnProjectStart(context.Context, string)                               {}
func (NoopAnalysisHooks) OnProjectComplete(context.Context, string, int, time.Duration, error)  {}
func (NoopAnalysisHooks) OnComposeStart(context.Context, int)                                  {}
func (NoopAnalysisHooks) OnComposeComplete(context.Context, int, time.Duration, error)          {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	analysisHooks AnalysisHooks = NoopAnalysisHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetAnalysisHooks registers custom analysis hooks.
// This should be called once at application startup before any analysis runs.
func SetAnalysisHooks(h AnalysisHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		analysisHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Analysis returns the registered analysis hooks.
func Analysis() AnalysisHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return analysisHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	analysisHooks = NoopAnalysisHooks{}
	cacheHooks = NoopCacheHooks{}
}
