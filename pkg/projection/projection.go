// Package projection implements the projection engine: it turns a swarm graph plus a subscription into a per-role
// machine, then (optionally) determinizes it via NFA→DFA subset
// construction and minimizes it via Hopcroft-style partition refinement.
package projection

import (
	"sort"
	"strings"

	"github.com/matzehuels/swarmcheck/pkg/graph"
	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// Project builds role's local machine from g:
//
//  1. retain a node iff it has ≥1 incoming edge whose event type is in
//     subs(role), or it is the initial node;
//  2. from each retained node, discover the interesting edges (event type
//     in subs(role)) reachable by stepping through uninteresting edges,
//     without crossing a node boundary on an interesting edge;
//  3. for each interesting edge (u,e,v): if e's role is role, add a
//     self-loop Execute{cmd,[e]} at u; always add u→v labelled Input{e}.
//
// When minimize is true the result is determinized (subset construction)
// and then minimized (partition refinement) — subset construction is not
// optional in that case, because the rewriting step above may have
// introduced nondeterminism.
func Project(g *swarm.Graph, subs swarm.Subscription, role ident.Role, minimize bool) *swarm.MachineGraph {
	s := subs.Of(role)
	retained := retainedNodes(g, s)

	mg := swarm.NewMachineGraph()
	mg.Initial = mg.NodeFor(g.State(g.Initial))

	for _, u := range sortedByState(retained, g) {
		us := g.State(u)
		mg.NodeFor(us)
		for _, edge := range interestingEdgesFrom(g, u, s) {
			ev, _ := edge.Weight.EventType()
			vs := g.State(edge.To)
			if edge.Weight.Role == role {
				mg.AddTransition(us, us, swarm.Execute{Cmd: edge.Weight.Cmd, LogType: []ident.EventType{ev}})
			}
			mg.AddTransition(us, vs, swarm.Input{EventType: ev})
		}
	}

	if !minimize {
		return mg
	}
	return Minimize(SubsetConstruct(mg))
}

func retainedNodes(g *swarm.Graph, s ident.EventSet) map[graph.NodeID]bool {
	out := map[graph.NodeID]bool{g.Initial: true}
	for _, e := range g.G.Edges() {
		if ev, ok := e.Weight.EventType(); ok && s.Has(ev) {
			out[e.To] = true
		}
	}
	return out
}

// interestingEdgesFrom walks g from start, crossing uninteresting edges
// (event type not in s) to discover interesting ones, never stepping past
// an interesting edge's target.
func interestingEdgesFrom(g *swarm.Graph, start graph.NodeID, s ident.EventSet) []graph.Edge[swarm.SwarmLabel] {
	visited := map[graph.NodeID]bool{start: true}
	var interesting []graph.Edge[swarm.SwarmLabel]
	queue := []graph.NodeID{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, eid := range g.G.OutEdges(n) {
			e, _ := g.G.Edge(eid)
			if ev, ok := e.Weight.EventType(); ok && s.Has(ev) {
				interesting = append(interesting, e)
				continue
			}
			if !visited[e.To] {
				visited[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	return interesting
}

func sortedByState(nodes map[graph.NodeID]bool, g *swarm.Graph) []graph.NodeID {
	out := make([]graph.NodeID, 0, len(nodes))
	for n := range nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return g.State(out[i]) < g.State(out[j]) })
	return out
}

// renderSetName renders a set of MachineGraph nodes as "{ n1, n2, … }",
// sorted — the subset-construction state name of 
func renderSetName(set map[graph.NodeID]bool, mg *swarm.MachineGraph) ident.State {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, string(mg.State(n)))
	}
	sort.Strings(names)
	return ident.State("{ " + strings.Join(names, ", ") + " }")
}
