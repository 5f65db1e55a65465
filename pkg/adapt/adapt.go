// Package adapt implements the adaptation engine and the equivalence
// checker: [AdaptedProjection] fuses an existing,
// user-supplied machine with a freshly computed projection, carrying
// state-correspondence metadata so a caller can align old client code to a
// newly synthesized protocol; [Equivalent] compares two machines structurally
// and reports deterministic-edge diagnostics.
package adapt

import (
	"github.com/matzehuels/swarmcheck/pkg/graph"
	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/projection"
	"github.com/matzehuels/swarmcheck/pkg/protoinfo"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// AdaptedProjection fuses userMachine into role's k-th-slot projection over
// combined:
//
//  1. every member protocol of combined is projected onto role, undecorated
//     (machine_states == nil on every node);
//  2. userMachine is decorated so each of its own states carries itself as
//     a singleton correspondence set;
//  3. the decorated user machine is composed with the k-th projection slot
//     over their shared Input-event alphabet, via [FuseAdaptationNodes];
//  4. the result is folded, in order, with every remaining slot
//     (0..k-1, then k+1..n-1), synchronizing at each step on the events of
//     roles shared between the accumulator so far and that slot — the same
//     interface alphabet [github.com/matzehuels/swarmcheck/pkg/machine.ProjectCombine]
//     computes for project_combine.
//
// minimize is applied to each projection slot before composition (step 1),
// matching "turns a swarm graph plus a subscription into a
// per-role machine ... optionally minimized"; the final fused graph is not
// re-minimized, since minimization would need to merge machine_states sets
// for newly-equivalent states, and no source consulted here specifies that merge
// rule (an Open Question resolved in DESIGN.md: correspondence fidelity is
// preserved over further size reduction on the composed result).
//
// An interfacing event that a fold step never matches between its two sides
// (anywhere in that step's product) is reported as an [swarm.CodeAsymmetricInterfaceLabel] diagnostic rather than aborting the fold.
func AdaptedProjection(combined *protoinfo.ProtoInfo, subs swarm.Subscription, role ident.Role, userMachine *swarm.MachineGraph, k int, minimize bool) (*swarm.AdaptGraph, []swarm.Diagnostic) {
	user := swarm.LiftUserMachine(userMachine)

	if len(combined.Graphs) == 0 {
		return user, nil
	}
	if k < 0 || k >= len(combined.Graphs) {
		k = 0
	}

	slots := make([]*swarm.AdaptGraph, len(combined.Graphs))
	for i, g := range combined.Graphs {
		slots[i] = swarm.LiftMachine(projection.Project(g, subs, role, minimize))
	}

	var diags []swarm.Diagnostic
	onAsym := func(side graph.Side, at ident.State, label swarm.MachineLabel) {
		diags = append(diags, swarm.NewAsymmetricInterfaceLabel(swarm.Side(side), at, label))
	}

	acc := composeAdapt(user, slots[k], sharedInputEvents(user, slots[k]), onAsym)
	accRoles := ident.RoleSet{}
	if len(combined.MemberRoles) > k {
		accRoles = combined.MemberRoles[k]
	}

	order := make([]int, 0, len(slots)-1)
	for i := 0; i < k; i++ {
		order = append(order, i)
	}
	for i := k + 1; i < len(slots); i++ {
		order = append(order, i)
	}

	for _, i := range order {
		nextRoles := ident.RoleSet{}
		if len(combined.MemberRoles) > i {
			nextRoles = combined.MemberRoles[i]
		}
		shared := accRoles.Intersect(nextRoles)
		ifaceEvents := ident.NewEventSet()
		for _, r := range ident.SortedRoles(shared) {
			ifaceEvents = ifaceEvents.Union(combined.EventsOfRole(r))
		}
		acc = composeAdapt(acc, slots[i], ifaceEvents, onAsym)
		accRoles = accRoles.Union(nextRoles)
	}

	return acc, diags
}

// composeAdapt is the pair-state product of two adaptation graphs over
// interfacing.
func composeAdapt(a, b *swarm.AdaptGraph, interfacing ident.EventSet, onAsymmetric func(side graph.Side, at ident.State, label swarm.MachineLabel)) *swarm.AdaptGraph {
	eventOf := func(l swarm.MachineLabel) (ident.EventType, bool) {
		if in, ok := l.(swarm.Input); ok {
			return in.EventType, true
		}
		return "", false
	}
	isInterfacing := func(e ident.EventType) bool { return interfacing.Has(e) }

	type asym struct {
		side  graph.Side
		at    graph.NodeID
		label swarm.MachineLabel
	}
	var asyms []asym
	raw := func(side graph.Side, at graph.NodeID, label swarm.MachineLabel) {
		asyms = append(asyms, asym{side, at, label})
	}

	prodG, prodInit := graph.PairProduct[swarm.AdaptationNode, swarm.MachineLabel, ident.EventType](
		a.G, a.Initial, b.G, b.Initial, eventOf, isInterfacing, swarm.FuseAdaptationNodes, raw,
	)
	if onAsymmetric != nil {
		for _, asy := range asyms {
			n, _ := prodG.Node(asy.at)
			onAsymmetric(asy.side, n.State, asy.label)
		}
	}
	return swarm.FromAdaptGraph(prodG, prodInit)
}

// sharedInputEvents returns the Input event types common to a and b — the
// "shared event alphabet" step composes the user machine and
// the k-th projection slot over.
func sharedInputEvents(a, b *swarm.AdaptGraph) ident.EventSet {
	ea, eb := inputEvents(a), inputEvents(b)
	out := ident.NewEventSet()
	for e := range ea {
		if eb.Has(e) {
			out.Add(e)
		}
	}
	return out
}

func inputEvents(g *swarm.AdaptGraph) ident.EventSet {
	out := ident.NewEventSet()
	for _, e := range g.G.Edges() {
		if in, ok := e.Weight.(swarm.Input); ok {
			out.Add(in.EventType)
		}
	}
	return out
}
