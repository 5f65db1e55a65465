package protoinfo

import (
	"sort"

	"github.com/matzehuels/swarmcheck/pkg/graph"
	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// Ingest materializes proto into a swarm graph and computes the
// single-protocol dossier: branching sets, immediate-predecessor
// map, role→labels index, succeeding-events fixpoint, and infinitely-looping
// events. Structural errors (empty/overlong log types, a disconnected
// initial state, states unreachable from it) are accumulated, never fatal to the enclosing
// pass over several protocols.
func Ingest(proto swarm.SwarmProtocolType) (*ProtoInfo, []swarm.Diagnostic) {
	g := swarm.NewGraph()
	g.Initial = g.NodeFor(proto.Initial)

	var diags []swarm.Diagnostic
	for _, t := range proto.Transitions {
		switch len(t.Label.LogType) {
		case 0:
			diags = append(diags, swarm.NewLabelError(swarm.CodeLogTypeEmpty, t.Source, t.Label, t.Target, ""))
		case 1:
			// well-formed
		default:
			diags = append(diags, swarm.NewLabelError(swarm.CodeMoreThanOneEventTypeInCommand, t.Source, t.Label, t.Target, ""))
		}
		g.AddTransition(t)
	}

	touchesInitial := len(proto.Transitions) == 0
	for _, t := range proto.Transitions {
		if t.Source == proto.Initial || t.Target == proto.Initial {
			touchesInitial = true
			break
		}
	}
	if !touchesInitial {
		diags = append(diags, swarm.NewStructural(swarm.CodeInitialStateDisconnected, proto.Initial, ""))
		info := empty()
		info.Graphs = []*swarm.Graph{g}
		info.Diagnostics = diags
		return info, diags
	}

	reach := graph.Reachable(graph.Forward(g.G), g.Initial)
	for _, n := range sortedNodesByState(g) {
		if !reach[n] {
			diags = append(diags, swarm.NewStructural(swarm.CodeStateUnreachable, g.State(n), ""))
		}
	}

	info := empty()
	info.Graphs = []*swarm.Graph{g}
	computeLocalIndexes(info, g)
	info.MemberRoles = []ident.RoleSet{ident.NewRoleSet(info.Roles()...)}
	info.SucceedingEvents = SucceedingFixpoint(g, func(ident.EventType, ident.EventType) bool { return false })
	info.InfinitelyLoopingEvents = InfinitelyLoopingEvents(g)
	diags = append(diags, ConfusionFree(g)...)
	info.Diagnostics = diags
	return info, diags
}

// ConfusionFree scans g's edges and reports every event type or command
// occurring on more than one edge.
// Per open question, diagnostics are not deduplicated against
// other classifications: an edge may be reported under both codes.
func ConfusionFree(g *swarm.Graph) []swarm.Diagnostic {
	byEvent := make(map[ident.EventType][]graph.EdgeID)
	byCmd := make(map[ident.Command][]graph.EdgeID)
	for _, e := range g.G.Edges() {
		if ev, ok := e.Weight.EventType(); ok {
			byEvent[ev] = append(byEvent[ev], e.ID)
		}
		byCmd[e.Weight.Cmd] = append(byCmd[e.Weight.Cmd], e.ID)
	}

	var diags []swarm.Diagnostic
	for _, ev := range sortedEventTypeKeys(byEvent) {
		ids := byEvent[ev]
		if len(ids) <= 1 {
			continue
		}
		for _, id := range ids {
			e, _ := g.G.Edge(id)
			diags = append(diags, swarm.NewLabelError(swarm.CodeEventEmittedMultipleTimes, g.State(e.From), e.Weight, g.State(e.To), string(ev)))
		}
	}

	cmds := make([]ident.Command, 0, len(byCmd))
	for c := range byCmd {
		cmds = append(cmds, c)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i] < cmds[j] })
	for _, cmd := range cmds {
		ids := byCmd[cmd]
		if len(ids) <= 1 {
			continue
		}
		for _, id := range ids {
			e, _ := g.G.Edge(id)
			diags = append(diags, swarm.NewLabelError(swarm.CodeCommandOnMultipleTransitions, g.State(e.From), e.Weight, g.State(e.To), string(cmd)))
		}
	}
	return diags
}

// computeLocalIndexes fills in BranchingEvents, ImmediatelyPre and
// RoleEventMap from g's edges.
func computeLocalIndexes(info *ProtoInfo, g *swarm.Graph) {
	for _, u := range sortedNodesByState(g) {
		outs := g.G.OutEdges(u)

		distinctTargets := make(map[graph.NodeID]bool)
		for _, eid := range outs {
			e, _ := g.G.Edge(eid)
			distinctTargets[e.To] = true
		}
		if len(distinctTargets) >= 2 {
			group := ident.NewEventSet()
			for _, eid := range outs {
				e, _ := g.G.Edge(eid)
				if ev, ok := e.Weight.EventType(); ok {
					group.Add(ev)
				}
			}
			if len(group) > 0 {
				info.BranchingEvents = append(info.BranchingEvents, group)
			}
		}

		predEvents := ident.NewEventSet()
		for _, eid := range g.G.InEdges(u) {
			e, _ := g.G.Edge(eid)
			if ev, ok := e.Weight.EventType(); ok {
				predEvents.Add(ev)
			}
		}
		for _, eid := range outs {
			e, _ := g.G.Edge(eid)
			if ev, ok := e.Weight.EventType(); ok {
				info.ImmediatelyPre[ev] = predEvents.Clone()
			}
			addRoleLabel(info.RoleEventMap, e.Weight)
		}
	}
}

// SucceedingFixpoint computes SucceedingEvents: for each edge
// with event e, its successors are the event types on edges leaving the
// target, minus those concurrent with e, plus transitively their own
// successors — by repeated post-order traversal until stable. Termination
// is guaranteed: the map is monotone grow-only over a finite alphabet.
func SucceedingFixpoint(g *swarm.Graph, concurrent func(a, b ident.EventType) bool) map[ident.EventType]ident.EventSet {
	succ := make(map[ident.EventType]ident.EventSet)
	ensure := func(e ident.EventType) ident.EventSet {
		if s, ok := succ[e]; ok {
			return s
		}
		s := ident.NewEventSet()
		succ[e] = s
		return s
	}

	changed := true
	for changed {
		changed = false
		order := graph.PostOrder(graph.Forward(g.G), g.Initial)
		for _, u := range order {
			for _, eid := range g.G.OutEdges(u) {
				edge, _ := g.G.Edge(eid)
				e, ok := edge.Weight.EventType()
				if !ok {
					continue
				}
				sset := ensure(e)
				for _, oeid := range g.G.OutEdges(edge.To) {
					oedge, _ := g.G.Edge(oeid)
					oe, ok2 := oedge.Weight.EventType()
					if !ok2 || oe == e || concurrent(e, oe) {
						continue
					}
					if !sset.Has(oe) {
						sset.Add(oe)
						changed = true
					}
					for se := range ensure(oe) {
						if !sset.Has(se) {
							sset.Add(se)
							changed = true
						}
					}
				}
			}
		}
	}
	return succ
}

// InfinitelyLoopingEvents computes events emitted from a state that cannot
// reach a leaf (terminal) state, via reversed DFS from every leaf (spec
// §4.C step 7).
func InfinitelyLoopingEvents(g *swarm.Graph) ident.EventSet {
	var leaves []graph.NodeID
	for _, u := range sortedNodesByState(g) {
		if len(g.G.OutEdges(u)) == 0 {
			leaves = append(leaves, u)
		}
	}

	canReachLeaf := make(map[graph.NodeID]bool)
	rev := graph.Reversed(g.G)
	for _, leaf := range leaves {
		for n := range graph.Reachable(rev, leaf) {
			canReachLeaf[n] = true
		}
	}

	out := ident.NewEventSet()
	for _, u := range sortedNodesByState(g) {
		if canReachLeaf[u] {
			continue
		}
		for _, eid := range g.G.OutEdges(u) {
			e, _ := g.G.Edge(eid)
			if ev, ok := e.Weight.EventType(); ok {
				out.Add(ev)
			}
		}
	}
	return out
}

// sortedNodesByState returns g's nodes ordered by state name, giving
// branching/predecessor computation a deterministic iteration order
// independent of lazy node-creation order.
func sortedNodesByState(g *swarm.Graph) []graph.NodeID {
	nodes := g.G.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return g.State(nodes[i]) < g.State(nodes[j]) })
	return nodes
}
