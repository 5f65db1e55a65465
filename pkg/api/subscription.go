package api

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/swarmcheck/internal/clog"
	"github.com/matzehuels/swarmcheck/pkg/subscription"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// ExactWellFormedSub is exact_well_formed_sub: computes the
// explicit composition of protos and runs [subscription.Exact] over it,
// seeded by subs. The returned subscription is minimal: 
// invariant 4 requires that removing any single event from any role's set
// makes [CheckComposedSwarm] fail.
func ExactWellFormedSub(protos swarm.InterfacingProtocols, subs swarm.Subscription, logger *log.Logger) swarm.Data[swarm.Subscription] {
	logger = clog.OrDefault(logger)
	combined := ingestCombine(protos, logger)
	explicit := explicitComposition(combined, logger)
	if len(explicit.Diagnostics) > 0 || len(explicit.Graphs) == 0 {
		return swarm.DataFromDiagnostics(swarm.Subscription{}, explicit.Diagnostics)
	}

	prog := clog.NewProgress(logger)
	result := subscription.Exact(explicit.Graphs[0], explicit, subs)
	prog.Done("exact_well_formed_sub")
	logger.Debug("exact_well_formed_sub", "protocols", len(protos), "roles", len(result))
	return swarm.Data[swarm.Subscription]{Value: result}
}

// OverapproximatedWellFormedSub is // overapproximated_well_formed_sub: computes a sound but possibly non-
// minimal subscription with [subscription.Overapproximate], without ever
// materializing the explicit composition.
func OverapproximatedWellFormedSub(protos swarm.InterfacingProtocols, subs swarm.Subscription, granularity swarm.Granularity, logger *log.Logger) swarm.Data[swarm.Subscription] {
	logger = clog.OrDefault(logger)
	combined := ingestCombine(protos, logger)
	if len(combined.Diagnostics) > 0 {
		return swarm.DataFromDiagnostics(swarm.Subscription{}, combined.Diagnostics)
	}

	prog := clog.NewProgress(logger)
	result := subscription.Overapproximate(combined, subs, granularity)
	prog.Done("overapproximated_well_formed_sub")
	logger.Debug("overapproximated_well_formed_sub", "protocols", len(protos), "granularity", granularity, "roles", len(result))
	return swarm.Data[swarm.Subscription]{Value: result}
}
