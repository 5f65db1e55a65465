package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/swarmcheck/internal/clog"
	"github.com/matzehuels/swarmcheck/pkg/cache"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// Runner wraps the pure operations of this package with caching and run
// tagging: internal/cli and internal/httpapi never call
// ExactWellFormedSub/CheckComposedSwarm/... directly, they go through a
// Runner so every entry point gets identical caching behavior.
//
// A Runner is stateless beyond its Cache/Keyer/Logger/Store; it is safe for
// concurrent use by multiple goroutines with different inputs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	Store  RunStore
}

// RunStore persists a history of analysis runs — role, subscription,
// errors, timestamp — for the CLI "history" command and the HTTP
// "GET /runs" endpoint. [github.com/matzehuels/swarmcheck/pkg/store.Store]
// is the Mongo-backed implementation; nil disables persistence.
type RunStore interface {
	Save(ctx context.Context, record RunRecord) error
}

// RunRecord is one persisted analysis run; see pkg/store.
type RunRecord struct {
	ID            string    `json:"id" bson:"_id"`
	Operation     string    `json:"operation" bson:"operation"`
	ProtocolsHash string    `json:"protocolsHash" bson:"protocolsHash"`
	Role          string    `json:"role,omitempty" bson:"role,omitempty"`
	Granularity   string    `json:"granularity,omitempty" bson:"granularity,omitempty"`
	OK            bool      `json:"ok" bson:"ok"`
	Errors        []string  `json:"errors,omitempty" bson:"errors,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// NewRunner creates a runner with the given cache and keyer. A nil cache
// disables caching (falls back to [cache.NewNullCache]); a nil keyer uses
// [cache.NewDefaultKeyer]; a nil store disables run persistence.
func NewRunner(c cache.Cache, keyer cache.Keyer, store RunStore, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Runner{Cache: c, Keyer: keyer, Store: store, Logger: clog.OrDefault(logger)}
}

// ProtocolsHash computes the cache/store correlation key for protos: the
// SHA-256 hash of their canonical JSON encoding (pkg/cache.Hash).
func ProtocolsHash(protos swarm.InterfacingProtocols) string {
	data, _ := json.Marshal(protos)
	return cache.Hash(data)
}

// newRunID stamps a fresh run identifier using google/uuid instead of
// crypto/rand, since a Runner's run IDs are cache/store correlation keys,
// not security tokens.
func newRunID() string { return uuid.NewString() }

// record persists a completed run via r.Store, best-effort: a persistence
// failure is logged and swallowed, never surfacing as an analysis error
//.
func (r *Runner) record(ctx context.Context, runID, op, protocolsHash, role, granularity string, ok bool, errs []string) {
	if r.Store == nil {
		return
	}
	rec := RunRecord{
		ID:            runID,
		Operation:     op,
		ProtocolsHash: protocolsHash,
		Role:          role,
		Granularity:   granularity,
		OK:            ok,
		Errors:        errs,
		CreatedAt:     time.Now(),
	}
	if err := r.Store.Save(ctx, rec); err != nil {
		r.Logger.Warn("run persistence failed", "op", op, "runID", runID, "err", err)
	}
}

// cachedJSON is the shared get-or-compute path for every Runner method:
// look up key, and on a miss call compute, cache its JSON encoding under
// ttl, and return it.
func cachedJSON[T any](ctx context.Context, r *Runner, key string, ttl time.Duration, compute func() T) T {
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var out T
		if json.Unmarshal(data, &out) == nil {
			return out
		}
	}
	out := compute()
	if data, err := json.Marshal(out); err == nil {
		_ = r.Cache.Set(ctx, key, data, ttl)
	}
	return out
}

// CheckComposedSwarm runs [CheckComposedSwarm] behind the run cache,
// recording the run via r.Store.
func (r *Runner) CheckComposedSwarm(ctx context.Context, protos swarm.InterfacingProtocols, subs swarm.Subscription) swarm.Check {
	runID := newRunID()
	hash := ProtocolsHash(protos)
	key := r.Keyer.RunKey("check_composed_swarm", hash)
	result := cachedJSON(ctx, r, key, cache.TTLCheck, func() swarm.Check {
		return CheckComposedSwarm(protos, subs, r.Logger)
	})
	r.record(ctx, runID, "check_composed_swarm", hash, "", "", result.OK(), result.Errors)
	return result
}

// ExactWellFormedSub runs [ExactWellFormedSub] behind the run cache.
func (r *Runner) ExactWellFormedSub(ctx context.Context, protos swarm.InterfacingProtocols, subs swarm.Subscription) swarm.Data[swarm.Subscription] {
	runID := newRunID()
	hash := ProtocolsHash(protos)
	key := r.Keyer.SubscriptionKey(hash, cache.SubscriptionKeyOpts{Exact: true})
	result := cachedJSON(ctx, r, key, cache.TTLSubscription, func() swarm.Data[swarm.Subscription] {
		return ExactWellFormedSub(protos, subs, r.Logger)
	})
	r.record(ctx, runID, "exact_well_formed_sub", hash, "", "", result.OK(), result.Errors)
	return result
}

// OverapproximatedWellFormedSub runs [OverapproximatedWellFormedSub] behind
// the run cache, keyed additionally by granularity.
func (r *Runner) OverapproximatedWellFormedSub(ctx context.Context, protos swarm.InterfacingProtocols, subs swarm.Subscription, granularity swarm.Granularity) swarm.Data[swarm.Subscription] {
	runID := newRunID()
	hash := ProtocolsHash(protos)
	key := r.Keyer.SubscriptionKey(hash, cache.SubscriptionKeyOpts{Granularity: string(granularity)})
	result := cachedJSON(ctx, r, key, cache.TTLSubscription, func() swarm.Data[swarm.Subscription] {
		return OverapproximatedWellFormedSub(protos, subs, granularity, r.Logger)
	})
	r.record(ctx, runID, "overapproximated_well_formed_sub", hash, "", string(granularity), result.OK(), result.Errors)
	return result
}

// ComposeProtocols runs [ComposeProtocols] behind the run cache.
func (r *Runner) ComposeProtocols(ctx context.Context, protos swarm.InterfacingProtocols) swarm.Data[swarm.SwarmProtocolType] {
	runID := newRunID()
	hash := ProtocolsHash(protos)
	key := r.Keyer.RunKey("compose_protocols", hash)
	result := cachedJSON(ctx, r, key, cache.TTLCheck, func() swarm.Data[swarm.SwarmProtocolType] {
		return ComposeProtocols(protos, r.Logger)
	})
	r.record(ctx, runID, "compose_protocols", hash, "", "", result.OK(), result.Errors)
	return result
}
