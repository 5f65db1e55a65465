// Package compose implements cross-protocol interface checking and the
// n-ary interfacing composition operation: it
// verifies that component protocols agree on the labels of the roles they
// share, folds their ProtoInfo dossiers into one, and — when a caller needs
// the explicit product rather than a composition-free strategy — builds the
// pair-state product graph.
package compose

import (
	"sort"

	"github.com/matzehuels/swarmcheck/pkg/graph"
	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/protoinfo"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// InterfacingRoles returns roles(a) ∩ roles(b).
func InterfacingRoles(a, b *protoinfo.ProtoInfo) ident.RoleSet {
	ra := ident.NewRoleSet(a.Roles()...)
	rb := ident.NewRoleSet(b.Roles()...)
	return ra.Intersect(rb)
}

// InterfacingEvents returns the union of roles' labels' event types, for
// roles common to a and b.
func InterfacingEvents(a, b *protoinfo.ProtoInfo, roles ident.RoleSet) ident.EventSet {
	out := ident.NewEventSet()
	for _, r := range ident.SortedRoles(roles) {
		out = out.Union(a.EventsOfRole(r))
		out = out.Union(b.EventsOfRole(r))
	}
	return out
}

// CheckInterface verifies that a and b agree on the labels of every role
// they share: the pair (event, role) and the pair (cmd, role) must each
// resolve consistently across both protocols.
func CheckInterface(a, b *protoinfo.ProtoInfo) []swarm.Diagnostic {
	var diags []swarm.Diagnostic
	shared := InterfacingRoles(a, b)

	for _, r := range ident.SortedRoles(shared) {
		cmdOfEventA, eventOfCmdA := indexLabels(a.RoleEventMap[r])
		cmdOfEventB, eventOfCmdB := indexLabels(b.RoleEventMap[r])

		for _, cmd := range sortedCommandKeys(eventOfCmdA) {
			eb, ok := eventOfCmdB[cmd]
			if !ok {
				continue
			}
			ea := eventOfCmdA[cmd]
			if ea != eb {
				diags = append(diags, swarm.Diagnostic{
					Code:    swarm.CodeCommandOnDifferentLabels,
					Role:    r,
					Command: cmd,
					Message: string(swarm.CodeCommandOnDifferentLabels) + ": role " + string(r) + " command " + string(cmd) + " emits " + string(ea) + " in one protocol and " + string(eb) + " in another",
				})
			}
		}
		for _, ev := range sortedEventKeys(cmdOfEventA) {
			cb, ok := cmdOfEventB[ev]
			if !ok {
				continue
			}
			ca := cmdOfEventA[ev]
			if ca != cb {
				diags = append(diags, swarm.Diagnostic{
					Code:    swarm.CodeEventTypeOnDifferentLabels,
					Role:    r,
					Event:   ev,
					Message: string(swarm.CodeEventTypeOnDifferentLabels) + ": role " + string(r) + " event " + string(ev) + " issued by command " + string(ca) + " in one protocol and " + string(cb) + " in another",
				})
			}
		}
	}
	return diags
}

func indexLabels(labels []swarm.SwarmLabel) (cmdOfEvent map[ident.EventType]ident.Command, eventOfCmd map[ident.Command]ident.EventType) {
	cmdOfEvent = make(map[ident.EventType]ident.Command)
	eventOfCmd = make(map[ident.Command]ident.EventType)
	for _, l := range labels {
		if e, ok := l.EventType(); ok {
			cmdOfEvent[e] = l.Cmd
			eventOfCmd[l.Cmd] = e
		}
	}
	return
}

func sortedCommandKeys(m map[ident.Command]ident.EventType) []ident.Command {
	out := make([]ident.Command, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedEventKeys(m map[ident.EventType]ident.Command) []ident.EventType {
	out := make([]ident.EventType, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// protocolEvents returns the full alphabet of a single ProtoInfo.
func protocolEvents(info *protoinfo.ProtoInfo) ident.EventSet { return info.Events() }

// Combine left-folds infos pairwise: at
// each step it merges role→labels, branching sequences, predecessor and
// (per-protocol, not yet transitively closed) successor maps, unions
// infinitely-looping events, and over-approximates concurrency — any
// non-interfacing event of the accumulator is concurrent with any
// non-interfacing event of the next protocol. After the fold, joining
// events are derived from the combined predecessor/concurrency data.
func Combine(infos []*protoinfo.ProtoInfo) (*protoinfo.ProtoInfo, []swarm.Diagnostic) {
	if len(infos) == 0 {
		return &protoinfo.ProtoInfo{}, nil
	}
	acc := infos[0]
	var diags []swarm.Diagnostic
	for _, next := range infos[1:] {
		var stepDiags []swarm.Diagnostic
		acc, stepDiags = combinePair(acc, next)
		diags = append(diags, stepDiags...)
	}
	deriveJoining(acc)
	acc.Diagnostics = append(append([]swarm.Diagnostic{}, acc.Diagnostics...), diags...)
	return acc, diags
}

func combinePair(a, b *protoinfo.ProtoInfo) (*protoinfo.ProtoInfo, []swarm.Diagnostic) {
	diags := CheckInterface(a, b)
	shared := InterfacingRoles(a, b)
	newInterfacing := InterfacingEvents(a, b, shared)

	roleEventMap := make(map[ident.Role][]swarm.SwarmLabel, len(a.RoleEventMap)+len(b.RoleEventMap))
	for r, labels := range a.RoleEventMap {
		for _, l := range labels {
			addRoleLabelCopy(roleEventMap, r, l)
		}
	}
	for r, labels := range b.RoleEventMap {
		for _, l := range labels {
			addRoleLabelCopy(roleEventMap, r, l)
		}
	}

	concurrent := protoinfo.NewEventPairSet()
	concurrent.UnionInto(a.ConcurrentEvents)
	concurrent.UnionInto(b.ConcurrentEvents)
	aEvents, bEvents := protocolEvents(a), protocolEvents(b)
	interfacing := a.InterfacingEvents.Union(b.InterfacingEvents).Union(newInterfacing)
	for ea := range aEvents {
		if interfacing.Has(ea) {
			continue
		}
		for eb := range bEvents {
			if interfacing.Has(eb) {
				continue
			}
			concurrent.Add(ea, eb)
		}
	}

	out := &protoinfo.ProtoInfo{
		Graphs:                  append(append([]*swarm.Graph{}, a.Graphs...), b.Graphs...),
		MemberRoles:             append(append([]ident.RoleSet{}, a.MemberRoles...), b.MemberRoles...),
		RoleEventMap:            roleEventMap,
		ConcurrentEvents:        concurrent,
		BranchingEvents:         append(append([]ident.EventSet{}, a.BranchingEvents...), b.BranchingEvents...),
		JoiningEvents:           make(map[ident.EventType]ident.EventSet),
		ImmediatelyPre:          mergeEventSetMaps(a.ImmediatelyPre, b.ImmediatelyPre),
		SucceedingEvents:        mergeEventSetMaps(a.SucceedingEvents, b.SucceedingEvents),
		InterfacingEvents:       interfacing,
		InfinitelyLoopingEvents: a.InfinitelyLoopingEvents.Union(b.InfinitelyLoopingEvents),
		Diagnostics:             append(append([]swarm.Diagnostic{}, a.Diagnostics...), append(append([]swarm.Diagnostic{}, b.Diagnostics...), diags...)...),
	}
	return out, diags
}

func addRoleLabelCopy(m map[ident.Role][]swarm.SwarmLabel, r ident.Role, l swarm.SwarmLabel) {
	for _, existing := range m[r] {
		if existing.Cmd == l.Cmd {
			ee, eok := existing.EventType()
			le, lok := l.EventType()
			if eok && lok && ee == le {
				return
			}
		}
	}
	m[r] = append(m[r], l)
}

func mergeEventSetMaps(a, b map[ident.EventType]ident.EventSet) map[ident.EventType]ident.EventSet {
	out := make(map[ident.EventType]ident.EventSet, len(a)+len(b))
	for e, s := range a {
		out[e] = s.Clone()
	}
	for e, s := range b {
		if existing, ok := out[e]; ok {
			out[e] = existing.Union(s)
		} else {
			out[e] = s.Clone()
		}
	}
	return out
}

// deriveJoining computes JoiningEvents: for each interfacing
// event e, the union of every pair of e's immediate predecessors that are
// concurrent with each other but not with e.
func deriveJoining(info *protoinfo.ProtoInfo) {
	info.JoiningEvents = make(map[ident.EventType]ident.EventSet)
	for _, e := range ident.SortedEvents(info.InterfacingEvents) {
		pre := ident.SortedEvents(info.ImmediatelyPre[e])
		set := ident.NewEventSet()
		for i := 0; i < len(pre); i++ {
			for j := i + 1; j < len(pre); j++ {
				p1, p2 := pre[i], pre[j]
				if info.Concurrent(p1, p2) && !info.Concurrent(p1, e) && !info.Concurrent(p2, e) {
					set.Add(p1)
					set.Add(p2)
				}
			}
		}
		if len(set) > 0 {
			info.JoiningEvents[e] = set
		}
	}
}

// asymEvent records an asymmetric interfacing label observed by
// [graph.PairProduct]'s onAsymmetric callback; the node weight is resolved
// from the finished output graph once the fold step returns (the callback
// itself has no access to it).
type asymEvent struct {
	side  graph.Side
	at    graph.NodeID
	label swarm.SwarmLabel
}

// ExplicitComposition left-folds the member graphs of a combined ProtoInfo
// (the output of [Combine]) via the pair-state product construction (spec
// §4.E): at step k the interface alphabet is the set of event types emitted
// by roles common to the accumulator (the union of infos' roles folded in
// so far, from MemberRoles) and the next member protocol. After folding,
// succeeding_events and infinitely-looping events are recomputed on the
// product graph, ("After composition recompute
// succeeding_events on the product graph and recompute infinitely-looping
// events from that"); every other field of combined (role→labels,
// concurrency, branching/joining, interfacing events) carries over
// unchanged. An asymmetric interfacing label is
// reported as a structured [swarm.CodeAsymmetricInterfaceLabel] diagnostic
// rather than aborting the fold.
func ExplicitComposition(combined *protoinfo.ProtoInfo) (*protoinfo.ProtoInfo, []swarm.Diagnostic) {
	if len(combined.Graphs) == 0 {
		return combined, nil
	}

	accGraph := combined.Graphs[0]
	accRoles := ident.RoleSet{}
	if len(combined.MemberRoles) > 0 {
		accRoles = combined.MemberRoles[0]
	}
	var diags []swarm.Diagnostic

	for k := 1; k < len(combined.Graphs); k++ {
		nextGraph := combined.Graphs[k]
		nextRoles := combined.MemberRoles[k]
		shared := accRoles.Intersect(nextRoles)

		ifaceEvents := ident.NewEventSet()
		for _, r := range ident.SortedRoles(shared) {
			ifaceEvents = ifaceEvents.Union(combined.EventsOfRole(r))
		}

		eventOf := func(l swarm.SwarmLabel) (ident.EventType, bool) { return l.EventType() }
		isInterfacing := func(e ident.EventType) bool { return ifaceEvents.Has(e) }
		fuseNode := func(a, b ident.State) ident.State { return ident.State("{" + string(a) + "} || {" + string(b) + "}") }

		var asyms []asymEvent
		onAsym := func(side graph.Side, at graph.NodeID, label swarm.SwarmLabel) {
			asyms = append(asyms, asymEvent{side: side, at: at, label: label})
		}

		prodG, prodInit := graph.PairProduct[ident.State, swarm.SwarmLabel, ident.EventType](
			accGraph.G, accGraph.Initial,
			nextGraph.G, nextGraph.Initial,
			eventOf, isInterfacing, fuseNode, onAsym,
		)
		for _, a := range asyms {
			st, _ := prodG.Node(a.at)
			diags = append(diags, swarm.NewAsymmetricInterfaceLabel(swarm.Side(a.side), st, a.label))
		}

		accGraph = swarm.FromGraph(prodG, prodInit)
		accRoles = accRoles.Union(nextRoles)
	}

	out := &protoinfo.ProtoInfo{
		Graphs:                  []*swarm.Graph{accGraph},
		MemberRoles:             []ident.RoleSet{accRoles},
		RoleEventMap:            combined.RoleEventMap,
		ConcurrentEvents:        combined.ConcurrentEvents,
		BranchingEvents:         combined.BranchingEvents,
		JoiningEvents:           combined.JoiningEvents,
		ImmediatelyPre:          combined.ImmediatelyPre,
		InterfacingEvents:       combined.InterfacingEvents,
		SucceedingEvents:        protoinfo.SucceedingFixpoint(accGraph, combined.Concurrent),
		InfinitelyLoopingEvents: protoinfo.InfinitelyLoopingEvents(accGraph),
		Diagnostics:             append(append([]swarm.Diagnostic{}, combined.Diagnostics...), diags...),
	}
	return out, diags
}
