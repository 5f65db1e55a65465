package api

import (
	"context"

	"github.com/matzehuels/swarmcheck/pkg/cache"
	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// RevisedProjection runs [RevisedProjection] behind the projection cache,
// keyed by the single protocol's hash (no composition happens, so caching
// the whole InterfacingProtocols list would be wasteful namespacing).
func (r *Runner) RevisedProjection(ctx context.Context, proto swarm.SwarmProtocolType, subs swarm.Subscription, role ident.Role, minimize bool) swarm.Data[swarm.MachineType] {
	runID := newRunID()
	hash := ProtocolsHash(swarm.InterfacingProtocols{proto})
	key := r.Keyer.ProjectionKey(hash, cache.ProjectionKeyOpts{Role: string(role), Minimize: minimize})
	result := cachedJSON(ctx, r, key, cache.TTLProjection, func() swarm.Data[swarm.MachineType] {
		return RevisedProjection(proto, subs, role, minimize, r.Logger)
	})
	r.record(ctx, runID, "revised_projection", hash, string(role), "", result.OK(), result.Errors)
	return result
}

// ProjectCombine runs [ProjectCombine] behind the projection cache.
func (r *Runner) ProjectCombine(ctx context.Context, protos swarm.InterfacingProtocols, subs swarm.Subscription, role ident.Role, minimize bool) swarm.Data[swarm.MachineType] {
	runID := newRunID()
	hash := ProtocolsHash(protos)
	key := r.Keyer.ProjectionKey(hash, cache.ProjectionKeyOpts{Role: string(role), Minimize: minimize, Combine: true})
	result := cachedJSON(ctx, r, key, cache.TTLProjection, func() swarm.Data[swarm.MachineType] {
		return ProjectCombine(protos, subs, role, minimize, r.Logger)
	})
	r.record(ctx, runID, "project_combine", hash, string(role), "", result.OK(), result.Errors)
	return result
}

// ProjectionInformation runs [ProjectionInformation] uncached: the optional
// userMachine argument makes the cache key space unbounded (any caller-
// supplied machine is a valid input), so this pass always recomputes — the
// one operation this module genuinely cannot bound a cache key for.
func (r *Runner) ProjectionInformation(ctx context.Context, role ident.Role, protos swarm.InterfacingProtocols, k int, subs swarm.Subscription, userMachine *swarm.MachineType, minimize bool) swarm.Data[swarm.ProjectionInfo] {
	runID := newRunID()
	hash := ProtocolsHash(protos)
	result := ProjectionInformation(role, protos, k, subs, userMachine, minimize, r.Logger)
	r.record(ctx, runID, "projection_information", hash, string(role), "", result.OK(), result.Errors)
	return result
}

// CheckComposedProjection runs [CheckComposedProjection] uncached, for the
// same reason as ProjectionInformation: userMachine is an unbounded input.
func (r *Runner) CheckComposedProjection(ctx context.Context, protos swarm.InterfacingProtocols, subs swarm.Subscription, role ident.Role, userMachine swarm.MachineType) swarm.Check {
	runID := newRunID()
	hash := ProtocolsHash(protos)
	result := CheckComposedProjection(protos, subs, role, userMachine, r.Logger)
	r.record(ctx, runID, "check_composed_projection", hash, string(role), "", result.OK(), result.Errors)
	return result
}
