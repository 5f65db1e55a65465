// Package wellformed implements the well-formedness oracle: given a composed swarm graph, its ProtoInfo dossier, and a
// candidate subscription, it enumerates every determinacy and
// causal-consistency violation as a [swarm.Diagnostic]. An empty result
// means the subscription is well-formed for that composition.
package wellformed

import (
	"github.com/matzehuels/swarmcheck/pkg/graph"
	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/protoinfo"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// RolesOnPath returns the roles that subscribe to at least one event in
// {e} ∪ succeeding(e).
func RolesOnPath(info *protoinfo.ProtoInfo, sub swarm.Subscription, e ident.EventType) ident.RoleSet {
	candidates := ident.NewEventSet(e)
	for s := range info.SucceedingEvents[e] {
		candidates.Add(s)
	}
	out := ident.NewRoleSet()
	for _, r := range allRoles(info, sub) {
		for c := range candidates {
			if sub.Of(r).Has(c) {
				out.Add(r)
				break
			}
		}
	}
	return out
}

// AllRolesSubToSame reports whether ∃ e∈events . ∀ r∈roles . e∈sub(r) (spec
// §4.G helper, shared with the oracle's looping rule).
func AllRolesSubToSame(events ident.EventSet, roles ident.RoleSet, sub swarm.Subscription) bool {
	if len(roles) == 0 {
		return true
	}
	for e := range events {
		allSub := true
		for r := range roles {
			if !sub.Of(r).Has(e) {
				allSub = false
				break
			}
		}
		if allSub {
			return true
		}
	}
	return false
}

// allRoles returns every role known to info or sub, so RolesOnPath considers
// roles a caller seeded into sub even before any event reached them.
func allRoles(info *protoinfo.ProtoInfo, sub swarm.Subscription) []ident.Role {
	set := ident.NewRoleSet(info.Roles()...)
	for _, r := range sub.Roles() {
		set.Add(r)
	}
	return ident.SortedRoles(set)
}

// BranchGroupAt returns the branching event-set leaving u, or nil if u is
// not a genuine decision point for ev. u having ≥2 distinct successors is
// necessary but not sufficient: after composition, concurrent interleaving
// routinely gives a node several outgoing events that are merely
// independent non-interfacing steps from different members, not a
// decision any single role makes. A node only branches on ev if ev is
// also a member of one of info's precomputed BranchingEvents groups (each
// traced back to an actual ≥2-successor choice in a single member
// protocol, before composition could interleave anything else in). The
// result is that group intersected with u's live outgoing event types, so
// a partially-pruned composed node doesn't force subscription to branch
// alternatives no longer reachable from it.
func BranchGroupAt(g *swarm.Graph, u graph.NodeID, ev ident.EventType, info *protoinfo.ProtoInfo) ident.EventSet {
	outs := g.G.OutEdges(u)
	targets := make(map[graph.NodeID]bool)
	live := ident.NewEventSet()
	for _, eid := range outs {
		e, _ := g.G.Edge(eid)
		targets[e.To] = true
		if oe, ok := e.Weight.EventType(); ok {
			live.Add(oe)
		}
	}
	if len(targets) < 2 || !live.Has(ev) {
		return nil
	}
	group := ident.NewEventSet()
	for _, candidate := range info.BranchingEvents {
		if !candidate.Has(ev) {
			continue
		}
		for e := range candidate {
			if live.Has(e) {
				group.Add(e)
			}
		}
	}
	// A single surviving branch event at this node isn't a decision
	// anymore — one alternative was lost to composition, not chosen.
	if len(group) < 2 {
		return nil
	}
	return group
}

// Check enumerates every well-formedness violation of sub against g/info
//: ActiveRoleNotSubscribed, LaterActiveRoleNotSubscribed,
// RoleNotSubscribedToBranch, RoleNotSubscribedToJoin and LoopingError.
func Check(g *swarm.Graph, info *protoinfo.ProtoInfo, sub swarm.Subscription) []swarm.Diagnostic {
	var diags []swarm.Diagnostic

	for _, e := range g.G.Edges() {
		lbl := e.Weight
		ev, ok := lbl.EventType()
		if !ok {
			continue
		}
		u, v := g.State(e.From), g.State(e.To)

		if !sub.Of(lbl.Role).Has(ev) {
			diags = append(diags, swarm.NewWellFormedness(swarm.CodeActiveRoleNotSubscribed, u, v, lbl, lbl.Role, ev))
		}

		for _, oeid := range g.G.OutEdges(e.To) {
			oe, _ := g.G.Edge(oeid)
			oev, ok2 := oe.Weight.EventType()
			if !ok2 || !info.SucceedingEvents[ev].Has(oev) {
				continue
			}
			r2 := oe.Weight.Role
			if !sub.Of(r2).Has(ev) {
				diags = append(diags, swarm.NewWellFormedness(swarm.CodeLaterActiveRoleNotSubscribed, u, v, lbl, r2, ev))
			}
		}

		if group := BranchGroupAt(g, e.From, ev, info); group != nil {
			for _, r := range ident.SortedRoles(RolesOnPath(info, sub, ev)) {
				if !sub.ContainsAll(r, group) {
					diags = append(diags, swarm.NewWellFormedness(swarm.CodeRoleNotSubscribedToBranch, u, v, lbl, r, ev))
				}
			}
		}

		if info.InterfacingEvents.Has(ev) {
			if joinSet, ok := info.JoiningEvents[ev]; ok && len(joinSet) > 0 {
				required := joinSet.Clone()
				required.Add(ev)
				involved := ident.NewRoleSet()
				for _, p := range ident.SortedEvents(joinSet) {
					if r, ok := info.RoleOfEvent(p); ok {
						involved.Add(r)
					}
				}
				if r, ok := info.RoleOfEvent(ev); ok {
					involved.Add(r)
				}
				for _, r := range ident.SortedRoles(involved) {
					if !sub.ContainsAll(r, required) {
						diags = append(diags, swarm.NewWellFormedness(swarm.CodeRoleNotSubscribedToJoin, u, v, lbl, r, ev))
					}
				}
			}
		}

		if info.InfinitelyLoopingEvents.Has(ev) {
			candidates := ident.NewEventSet(ev)
			for s := range info.SucceedingEvents[ev] {
				candidates.Add(s)
			}
			involved := ident.NewRoleSet()
			for _, c := range ident.SortedEvents(candidates) {
				if r, ok := info.RoleOfEvent(c); ok {
					involved.Add(r)
				}
			}
			if !AllRolesSubToSame(candidates, involved, sub) {
				diags = append(diags, swarm.NewLoopingError(ev, involved))
			}
		}
	}

	return diags
}
