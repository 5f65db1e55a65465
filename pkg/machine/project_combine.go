package machine

import (
	"github.com/matzehuels/swarmcheck/pkg/graph"
	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/projection"
	"github.com/matzehuels/swarmcheck/pkg/protoinfo"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// ProjectCombine computes role's machine over every member graph of
// combined without ever materializing their explicit composition (spec
// §4.I, project_combine): each member graph is projected onto role
// independently (unminimized), then the projections are left-folded with
// [Compose], synchronizing at step k on the events of roles shared between
// the protocols folded in so far and member k. The fold result is
// determinized and minimized only once, at the end, when minimize is true.
func ProjectCombine(combined *protoinfo.ProtoInfo, subs swarm.Subscription, role ident.Role, minimize bool) (*swarm.MachineGraph, []swarm.Diagnostic) {
	if len(combined.Graphs) == 0 {
		return swarm.NewMachineGraph(), nil
	}

	acc := projection.Project(combined.Graphs[0], subs, role, false)
	accRoles := ident.RoleSet{}
	if len(combined.MemberRoles) > 0 {
		accRoles = combined.MemberRoles[0]
	}
	var diags []swarm.Diagnostic

	for k := 1; k < len(combined.Graphs); k++ {
		next := projection.Project(combined.Graphs[k], subs, role, false)
		nextRoles := combined.MemberRoles[k]
		shared := accRoles.Intersect(nextRoles)

		ifaceEvents := ident.NewEventSet()
		for _, r := range ident.SortedRoles(shared) {
			ifaceEvents = ifaceEvents.Union(combined.EventsOfRole(r))
		}

		onAsym := func(side graph.Side, at ident.State, label swarm.MachineLabel) {
			diags = append(diags, swarm.NewAsymmetricInterfaceLabel(swarm.Side(side), at, label))
		}

		acc = Compose(acc, next, ifaceEvents, onAsym)
		accRoles = accRoles.Union(nextRoles)
	}

	if minimize {
		acc = projection.Minimize(projection.SubsetConstruct(acc))
	}
	return acc, diags
}
