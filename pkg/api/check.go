package api

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/swarmcheck/internal/clog"
	"github.com/matzehuels/swarmcheck/pkg/adapt"
	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
	"github.com/matzehuels/swarmcheck/pkg/wellformed"
)

// CheckComposedSwarm is check_composed_swarm: ingests and
// composes protos, then runs the well-formedness oracle over
// the explicit composition under subs. An empty error list means subs is
// well-formed for protos.
func CheckComposedSwarm(protos swarm.InterfacingProtocols, subs swarm.Subscription, logger *log.Logger) swarm.Check {
	logger = clog.OrDefault(logger)
	combined := ingestCombine(protos, logger)
	explicit := explicitComposition(combined, logger)

	diags := append([]swarm.Diagnostic{}, explicit.Diagnostics...)
	if len(explicit.Graphs) > 0 {
		diags = append(diags, wellformed.Check(explicit.Graphs[0], explicit, subs)...)
	}
	logger.Debug("check_composed_swarm", "protocols", len(protos), "errors", len(diags))
	return swarm.CheckFromDiagnostics(diags)
}

// CheckComposedProjection is check_composed_projection: builds
// the expected projection of role over protos under subs
// (pkg/machine.ProjectCombine) and compares it against userMachine via the
// parallel-DFS equivalence checker. An empty error list means
// userMachine behaves exactly like role's synthesized projection.
func CheckComposedProjection(protos swarm.InterfacingProtocols, subs swarm.Subscription, role ident.Role, userMachine swarm.MachineType, logger *log.Logger) swarm.Check {
	logger = clog.OrDefault(logger)
	combined := ingestCombine(protos, logger)

	expected, diags := projectCombineGraph(combined, subs, role, true, logger)
	user := swarm.FromMachineType(userMachine)

	prog := clog.NewProgress(logger)
	diags = append(diags, adapt.Equivalent(user, user.Initial, expected, expected.Initial)...)
	prog.Done("check_composed_projection")
	logger.Debug("check_composed_projection", "role", role, "errors", len(diags))
	return swarm.CheckFromDiagnostics(diags)
}
