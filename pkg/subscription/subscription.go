// Package subscription implements the four (five, counting two-step
// separately from medium) subscription-inference strategies of  —
// component G. All strategies start from a caller-supplied seed
// subscription and grow it monotonically; every strategy finishes by
// applying the looping rule ([AddLoopingEventTypes]).
package subscription

import (
	"sort"

	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/protoinfo"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
	"github.com/matzehuels/swarmcheck/pkg/wellformed"
)

func sortedJoinKeys(m map[ident.EventType]ident.EventSet) []ident.EventType {
	out := make([]ident.EventType, 0, len(m))
	for e := range m {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AddLoopingEventTypes applies the looping rule shared by every strategy
//: for every infinitely-looping event, if no single event in
// {e}∪succeeding(e) is subscribed by every involved role, add e to all of
// them.
func AddLoopingEventTypes(info *protoinfo.ProtoInfo, sub swarm.Subscription) bool {
	grew := false
	for _, e := range ident.SortedEvents(info.InfinitelyLoopingEvents) {
		candidates := ident.NewEventSet(e)
		for s := range info.SucceedingEvents[e] {
			candidates.Add(s)
		}
		involved := ident.NewRoleSet()
		for _, c := range ident.SortedEvents(candidates) {
			if r, ok := info.RoleOfEvent(c); ok {
				involved.Add(r)
			}
		}
		if !wellformed.AllRolesSubToSame(candidates, involved, sub) {
			for _, r := range ident.SortedRoles(involved) {
				if sub.Add(r, e) {
					grew = true
				}
			}
		}
	}
	return grew
}

// applyCausalConsistency is the info-level (composition-free) form of the
// oracle's ActiveRoleNotSubscribed/LaterActiveRoleNotSubscribed rules: the
// role that emits e, and the role of every event succeeding e, must
// subscribe to e.
func applyCausalConsistency(info *protoinfo.ProtoInfo, sub swarm.Subscription) bool {
	changed := false
	for _, e := range ident.SortedEvents(info.Events()) {
		if r, ok := info.RoleOfEvent(e); ok {
			if sub.Add(r, e) {
				changed = true
			}
		}
		for _, succ := range ident.SortedEvents(info.SucceedingEvents[e]) {
			if r, ok := info.RoleOfEvent(succ); ok {
				if sub.Add(r, e) {
					changed = true
				}
			}
		}
	}
	return changed
}

// rolesFor returns roles-on-path(e) when restrict is true, or every role of
// the protocol otherwise (the "coarse"/"universal" behavior).
func rolesFor(info *protoinfo.ProtoInfo, sub swarm.Subscription, e ident.EventType, restrict bool) ident.RoleSet {
	if restrict {
		return wellformed.RolesOnPath(info, sub, e)
	}
	return ident.NewRoleSet(info.Roles()...)
}

// applyBranchRule is the info-level form of RoleNotSubscribedToBranch: every
// role in rolesFor(e, restrict) must subscribe to e's whole branching group.
func applyBranchRule(info *protoinfo.ProtoInfo, sub swarm.Subscription, restrict bool) bool {
	changed := false
	for _, group := range info.BranchingEvents {
		for _, e := range ident.SortedEvents(group) {
			for _, r := range ident.SortedRoles(rolesFor(info, sub, e, restrict)) {
				if sub.AddAll(r, group) {
					changed = true
				}
			}
		}
	}
	return changed
}

// applyJoinRule is the info-level form of RoleNotSubscribedToJoin: every
// role in rolesFor(e, restrict) must subscribe to e's join-and-prejoin set.
func applyJoinRule(info *protoinfo.ProtoInfo, sub swarm.Subscription, restrict bool) bool {
	changed := false
	for _, e := range sortedJoinKeys(info.JoiningEvents) {
		required := info.JoiningEvents[e].Clone()
		required.Add(e)
		for _, r := range ident.SortedRoles(rolesFor(info, sub, e, restrict)) {
			if sub.AddAll(r, required) {
				changed = true
			}
		}
	}
	return changed
}

// applyInterfacingRule adds every interfacing event to rolesFor(e, restrict).
func applyInterfacingRule(info *protoinfo.ProtoInfo, sub swarm.Subscription, restrict bool) bool {
	changed := false
	for _, e := range ident.SortedEvents(info.InterfacingEvents) {
		for _, r := range ident.SortedRoles(rolesFor(info, sub, e, restrict)) {
			if sub.Add(r, e) {
				changed = true
			}
		}
	}
	return changed
}

// Exact computes the minimal well-formed subscription by iterating the
// oracle's determinacy rules to stability directly over the explicit
// composition graph, then applying the looping rule.
func Exact(composed *swarm.Graph, info *protoinfo.ProtoInfo, seed swarm.Subscription) swarm.Subscription {
	sub := seed.Clone()
	changed := true
	for changed {
		changed = false
		for _, e := range composed.G.Edges() {
			lbl := e.Weight
			ev, ok := lbl.EventType()
			if !ok {
				continue
			}
			if sub.Add(lbl.Role, ev) {
				changed = true
			}

			for _, oeid := range composed.G.OutEdges(e.To) {
				oe, _ := composed.G.Edge(oeid)
				oev, ok2 := oe.Weight.EventType()
				if !ok2 || !info.SucceedingEvents[ev].Has(oev) {
					continue
				}
				if sub.Add(oe.Weight.Role, ev) {
					changed = true
				}
			}

			if group := wellformed.BranchGroupAt(composed, e.From, ev, info); group != nil {
				for _, r := range ident.SortedRoles(wellformed.RolesOnPath(info, sub, ev)) {
					if sub.AddAll(r, group) {
						changed = true
					}
				}
			}

			if info.InterfacingEvents.Has(ev) {
				if joinSet, ok := info.JoiningEvents[ev]; ok && len(joinSet) > 0 {
					required := joinSet.Clone()
					required.Add(ev)
					for _, r := range ident.SortedRoles(wellformed.RolesOnPath(info, sub, ev)) {
						if sub.AddAll(r, required) {
							changed = true
						}
					}
				}
			}
		}
	}
	AddLoopingEventTypes(info, sub)
	return sub
}

// Coarse over-approximates without expanding the composition:
// every role gets every branching event, every join-and-prejoin set, and
// every interfacing event, plus its own events' immediate predecessors.
func Coarse(info *protoinfo.ProtoInfo, seed swarm.Subscription) swarm.Subscription {
	sub := seed.Clone()
	roles := info.Roles()

	applyBranchRule(info, sub, false)
	applyInterfacingRule(info, sub, false)
	applyJoinRule(info, sub, false)

	for _, r := range roles {
		for _, e := range ident.SortedEvents(info.EventsOfRole(r)) {
			sub.AddAll(r, info.ImmediatelyPre[e])
		}
	}

	AddLoopingEventTypes(info, sub)
	return sub
}

// Fine restricts the branch and join rules to interested roles
// (roles-on-path), iterated to stability; unlike [Medium] it does not
// universally add interfacing events.
func Fine(info *protoinfo.ProtoInfo, seed swarm.Subscription) swarm.Subscription {
	sub := seed.Clone()
	applyCausalConsistency(info, sub)
	for {
		changed := applyBranchRule(info, sub, true)
		if applyJoinRule(info, sub, true) {
			changed = true
		}
		if !changed {
			break
		}
	}
	AddLoopingEventTypes(info, sub)
	return sub
}

// Medium is [Fine] plus a universal interfacing-event grant to every role
//.
func Medium(info *protoinfo.ProtoInfo, seed swarm.Subscription) swarm.Subscription {
	sub := seed.Clone()
	applyCausalConsistency(info, sub)
	applyInterfacingRule(info, sub, false)
	for {
		changed := applyBranchRule(info, sub, true)
		if applyJoinRule(info, sub, true) {
			changed = true
		}
		if !changed {
			break
		}
	}
	AddLoopingEventTypes(info, sub)
	return sub
}

// TwoStep is the production default: causal consistency first,
// then branches/joins/interfacing — each restricted to interested roles —
// iterated together to stability.
func TwoStep(info *protoinfo.ProtoInfo, seed swarm.Subscription) swarm.Subscription {
	sub := seed.Clone()
	applyCausalConsistency(info, sub)
	for {
		changed := applyBranchRule(info, sub, true)
		if applyJoinRule(info, sub, true) {
			changed = true
		}
		if applyInterfacingRule(info, sub, true) {
			changed = true
		}
		if !changed {
			break
		}
	}
	AddLoopingEventTypes(info, sub)
	return sub
}

// Overapproximate dispatches to the strategy named by g.
func Overapproximate(info *protoinfo.ProtoInfo, seed swarm.Subscription, g swarm.Granularity) swarm.Subscription {
	switch g {
	case swarm.Fine:
		return Fine(info, seed)
	case swarm.Medium:
		return Medium(info, seed)
	case swarm.Coarse:
		return Coarse(info, seed)
	case swarm.TwoStep:
		return TwoStep(info, seed)
	default:
		return TwoStep(info, seed)
	}
}
