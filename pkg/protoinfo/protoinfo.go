package protoinfo

import (
	"sort"

	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// EventPair is an unordered pair of event types, used as the key of the
// concurrency relation.
type EventPair struct{ A, B ident.EventType }

// NewEventPair returns the canonical (lexically ordered) pair for a, b.
func NewEventPair(a, b ident.EventType) EventPair {
	if a > b {
		a, b = b, a
	}
	return EventPair{A: a, B: b}
}

// EventPairSet is an unordered collection of [EventPair]s.
type EventPairSet map[EventPair]struct{}

// NewEventPairSet returns an empty EventPairSet.
func NewEventPairSet() EventPairSet { return make(EventPairSet) }

// Add inserts the unordered pair (a, b).
func (s EventPairSet) Add(a, b ident.EventType) { s[NewEventPair(a, b)] = struct{}{} }

// Has reports whether (a, b) is a member, in either order.
func (s EventPairSet) Has(a, b ident.EventType) bool {
	_, ok := s[NewEventPair(a, b)]
	return ok
}

// UnionInto copies every pair of other into s.
func (s EventPairSet) UnionInto(other EventPairSet) {
	for p := range other {
		s[p] = struct{}{}
	}
}

// ProtoInfo is the aggregator described by  Graphs holds the
// member protocol graphs in composition order (needed by
// [pkg/compose.ExplicitComposition] and by project_combine
// after explicit composition a ProtoInfo instead describes the single
// product graph and Graphs holds just that one entry.
type ProtoInfo struct {
	Graphs []*swarm.Graph

	// MemberRoles holds, for each entry of Graphs in order, the set of
	// roles that protocol contributes. [pkg/compose.ExplicitComposition]
	// uses it to compute the per-step interface alphabet ("roles common to
	// the accumulator and the next protocol" without needing
	// the pre-combine ProtoInfo list.
	MemberRoles []ident.RoleSet

	RoleEventMap            map[ident.Role][]swarm.SwarmLabel
	ConcurrentEvents        EventPairSet
	BranchingEvents         []ident.EventSet
	JoiningEvents           map[ident.EventType]ident.EventSet
	ImmediatelyPre          map[ident.EventType]ident.EventSet
	SucceedingEvents        map[ident.EventType]ident.EventSet
	InterfacingEvents       ident.EventSet
	InfinitelyLoopingEvents ident.EventSet

	Diagnostics []swarm.Diagnostic
}

// empty returns a zero-valued ProtoInfo with every map/set initialized.
func empty() *ProtoInfo {
	return &ProtoInfo{
		RoleEventMap:            make(map[ident.Role][]swarm.SwarmLabel),
		ConcurrentEvents:        NewEventPairSet(),
		JoiningEvents:           make(map[ident.EventType]ident.EventSet),
		ImmediatelyPre:          make(map[ident.EventType]ident.EventSet),
		SucceedingEvents:        make(map[ident.EventType]ident.EventSet),
		InterfacingEvents:       ident.NewEventSet(),
		InfinitelyLoopingEvents: ident.NewEventSet(),
	}
}

// Concurrent reports whether a and b are known to be concurrent.
func (pi *ProtoInfo) Concurrent(a, b ident.EventType) bool {
	return pi.ConcurrentEvents.Has(a, b)
}

// Roles returns the protocol's roles in sorted order.
func (pi *ProtoInfo) Roles() []ident.Role {
	roles := make([]ident.Role, 0, len(pi.RoleEventMap))
	for r := range pi.RoleEventMap {
		roles = append(roles, r)
	}
	return ident.SortedRoles(ident.NewRoleSet(roles...))
}

// EventsOfRole returns the set of event types role emits.
func (pi *ProtoInfo) EventsOfRole(role ident.Role) ident.EventSet {
	out := ident.NewEventSet()
	for _, l := range pi.RoleEventMap[role] {
		if e, ok := l.EventType(); ok {
			out.Add(e)
		}
	}
	return out
}

// RoleOfEvent returns the role that emits event, and whether one was found.
// Confusion-freeness guarantees at most one match; ingest guarantees it for
// a single protocol, [github.com/matzehuels/swarmcheck/pkg/compose]'s
// interface check guarantees it remains true across a composition.
func (pi *ProtoInfo) RoleOfEvent(event ident.EventType) (ident.Role, bool) {
	for _, r := range pi.Roles() {
		if pi.EventsOfRole(r).Has(event) {
			return r, true
		}
	}
	return "", false
}

// Events returns every event type appearing in the protocol's role→labels
// index (its full alphabet).
func (pi *ProtoInfo) Events() ident.EventSet {
	out := ident.NewEventSet()
	for _, labels := range pi.RoleEventMap {
		for _, l := range labels {
			if e, ok := l.EventType(); ok {
				out.Add(e)
			}
		}
	}
	return out
}

// addRoleLabel inserts label into the role's label list, deduplicating by
// (Cmd, EventType) — the same command/event legitimately recurs across
// protocols sharing an interface, but not twice within one protocol's index.
func addRoleLabel(m map[ident.Role][]swarm.SwarmLabel, label swarm.SwarmLabel) {
	for _, existing := range m[label.Role] {
		if existing.Cmd == label.Cmd {
			ee, eok := existing.EventType()
			le, lok := label.EventType()
			if eok && lok && ee == le {
				return
			}
		}
	}
	m[label.Role] = append(m[label.Role], label)
}

// sortedEventTypeKeys returns the keys of an EventType-keyed map in sorted
// order, for deterministic iteration.
func sortedEventTypeKeys[V any](m map[ident.EventType]V) []ident.EventType {
	out := make([]ident.EventType, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
