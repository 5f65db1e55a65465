// Package branch implements the branch-reachability analyzer: for a projected machine, it computes which event types may
// follow each Input event in the role's local view, consumed by
// downstream callers alongside the projection itself.
package branch

import (
	"github.com/matzehuels/swarmcheck/pkg/graph"
	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/protoinfo"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// SpecialEventTypes returns the event types branch-reachability treats as "special":
// every event in any branching group, plus every joining event and its
// preceding-concurrent events — crossing an edge bearing one of these stops
// the reachability walk for that starting event.
func SpecialEventTypes(info *protoinfo.ProtoInfo) ident.EventSet {
	out := ident.NewEventSet()
	for _, group := range info.BranchingEvents {
		out = out.Union(group)
	}
	for e, pre := range info.JoiningEvents {
		out.Add(e)
		out = out.Union(pre)
	}
	return out
}

// closesOver builds the transitive closure of info.SucceedingEvents as an
// EventType→EventType reachability predicate, via [graph.TransitiveClosure]
// over a small derivation graph whose edges are the (non-closed)
// succeeding-events relation.
func closesOver(info *protoinfo.ProtoInfo) func(a, b ident.EventType) bool {
	events := ident.SortedEvents(info.Events())
	index := make(map[ident.EventType]graph.NodeID, len(events))
	g := graph.New[ident.EventType, struct{}]()
	for _, e := range events {
		index[e] = g.AddNode(e)
	}
	for e, succ := range info.SucceedingEvents {
		from, ok := index[e]
		if !ok {
			continue
		}
		for s := range succ {
			if to, ok := index[s]; ok {
				g.AddEdge(from, to, struct{}{})
			}
		}
	}
	closure := graph.TransitiveClosure(g)
	return func(a, b ident.EventType) bool {
		ai, aok := index[a]
		bi, bok := index[b]
		if !aok || !bok {
			return false
		}
		return closure[ai][bi]
	}
}

// Reachability computes, for every Input edge of mg on event e, the set of
// event types that may follow it in the local view: starting a
// BFS at the edge's target, every outgoing Input edge's event type is
// collected and the walk continues past it, UNLESS the edge bears a
// special event type (SpecialEventTypes) — collected but not walked past —
// or the pair (e, that event type) is concurrent and does not transitively
// follow e per info.SucceedingEvents' closure, in which case the event is
// skipped (neither collected nor walked past, since it is genuinely
// unordered with e and carries no information about what comes "after" it)
// —  "treat events that transitively follow e as non-concurrent
// regardless of their concurrency flag". A revisited node also stops the
// walk along that path.
func Reachability(mg *swarm.MachineGraph, info *protoinfo.ProtoInfo) map[ident.EventType][]ident.EventType {
	special := SpecialEventTypes(info)
	transitivelyFollows := closesOver(info)

	out := make(map[ident.EventType][]ident.EventType)
	for _, n := range mg.G.Nodes() {
		for _, eid := range mg.G.OutEdges(n) {
			e, _ := mg.G.Edge(eid)
			in, ok := e.Weight.(swarm.Input)
			if !ok {
				continue
			}
			ev := in.EventType
			if _, done := out[ev]; done {
				continue
			}
			out[ev] = ident.SortedEvents(reachFrom(mg, e.To, ev, special, info, transitivelyFollows))
		}
	}
	return out
}

func reachFrom(mg *swarm.MachineGraph, start graph.NodeID, e ident.EventType, special ident.EventSet, info *protoinfo.ProtoInfo, transitivelyFollows func(a, b ident.EventType) bool) ident.EventSet {
	collected := ident.NewEventSet()
	visited := map[graph.NodeID]bool{start: true}
	queue := []graph.NodeID{start}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, eid := range mg.G.OutEdges(n) {
			edge, _ := mg.G.Edge(eid)
			in, ok := edge.Weight.(swarm.Input)
			if !ok {
				continue
			}
			ev2 := in.EventType

			if info.Concurrent(e, ev2) && !transitivelyFollows(e, ev2) {
				continue
			}

			collected.Add(ev2)
			if special.Has(ev2) {
				continue
			}
			if !visited[edge.To] {
				visited[edge.To] = true
				queue = append(queue, edge.To)
			}
		}
	}
	return collected
}
