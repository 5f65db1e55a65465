package swarm

import (
	"sort"

	"github.com/matzehuels/swarmcheck/pkg/graph"
	"github.com/matzehuels/swarmcheck/pkg/ident"
)

// AdaptationNode is the node weight of an adaptation graph: a
// composed state, optionally carrying back-pointers to the original
// user-supplied machine states it refines. MachineStates is nil for nodes
// descending only from freshly computed projection slots; once composed
// with the user machine (or a node derived from it) it holds the set of
// original states that correspond to this composed node.
type AdaptationNode struct {
	State         ident.State
	MachineStates ident.StateSet
}

// String renders the node the way a composed state name is rendered
// elsewhere in this package ("{a} || {b}" via [FuseAdaptationNodes]); this
// is just the bare state name, used for display and as a map key basis.
func (n AdaptationNode) String() string { return string(n.State) }

// FuseAdaptationNodes is the node-fuser AdaptedProjection calls for when composing
// a user machine with a projection (or with another adaptation graph):
// state names concatenate as "{a} || {b}", and non-nil MachineStates sets
// intersect — the composed node's correspondence narrows only when both
// sides already have one.
func FuseAdaptationNodes(a, b AdaptationNode) AdaptationNode {
	return AdaptationNode{
		State:         ident.State("{" + string(a.State) + "} || {" + string(b.State) + "}"),
		MachineStates: a.MachineStates.Intersect(b.MachineStates),
	}
}

// AdaptGraph is an adaptation graph: the carrier of [graph.PairProduct] runs
// over AdaptationNode-weighted machines, with MachineLabel edges.
type AdaptGraph struct {
	G       *graph.Graph[AdaptationNode, MachineLabel]
	Initial graph.NodeID
}

// LiftMachine wraps a plain machine graph as an adaptation graph whose
// nodes carry no machine-state correspondence (MachineStates == nil) — the
// shape every freshly computed projection slot starts in before it is
// composed with the user machine.
func LiftMachine(mg *MachineGraph) *AdaptGraph {
	g := graph.New[AdaptationNode, MachineLabel]()
	remap := make(map[graph.NodeID]graph.NodeID, mg.G.NodeCount())
	for _, n := range mg.G.Nodes() {
		remap[n] = g.AddNode(AdaptationNode{State: mg.State(n)})
	}
	for _, e := range mg.G.Edges() {
		g.AddEdge(remap[e.From], remap[e.To], e.Weight)
	}
	return &AdaptGraph{G: g, Initial: remap[mg.Initial]}
}

// LiftUserMachine wraps the caller-supplied machine as an adaptation graph
// whose nodes each carry their own original state as a singleton
// correspondence set.
func LiftUserMachine(mg *MachineGraph) *AdaptGraph {
	g := graph.New[AdaptationNode, MachineLabel]()
	remap := make(map[graph.NodeID]graph.NodeID, mg.G.NodeCount())
	for _, n := range mg.G.Nodes() {
		s := mg.State(n)
		remap[n] = g.AddNode(AdaptationNode{State: s, MachineStates: ident.NewStateSet(s)})
	}
	for _, e := range mg.G.Edges() {
		g.AddEdge(remap[e.From], remap[e.To], e.Weight)
	}
	return &AdaptGraph{G: g, Initial: remap[mg.Initial]}
}

// FromAdaptGraph wraps an already-built generic graph — the output of
// [graph.PairProduct] run with [FuseAdaptationNodes] — as an AdaptGraph.
func FromAdaptGraph(g *graph.Graph[AdaptationNode, MachineLabel], initial graph.NodeID) *AdaptGraph {
	return &AdaptGraph{G: g, Initial: initial}
}

// State returns the state name of a node id.
func (g *AdaptGraph) State(id graph.NodeID) ident.State {
	n, _ := g.G.Node(id)
	return n.State
}

// ToMachineGraph discards the machine_states correspondence and renders g
// as a plain machine graph, for callers (projection rendering, equivalence
// checking) that only need the transition structure.
func (g *AdaptGraph) ToMachineGraph() *MachineGraph {
	out := NewMachineGraph()
	out.Initial = out.NodeFor(g.State(g.Initial))
	for _, e := range g.G.Edges() {
		out.AddTransition(g.State(e.From), g.State(e.To), e.Weight)
	}
	return out
}

// ToMachineType renders g back to the external MachineType encoding.
func (g *AdaptGraph) ToMachineType() MachineType { return g.ToMachineGraph().ToMachineType() }

// ProjToMachineStates collects, for every node of g, the set of original
// user-machine states it corresponds to — nodes with a nil correspondence are omitted.
func (g *AdaptGraph) ProjToMachineStates() map[ident.State][]ident.State {
	out := make(map[ident.State][]ident.State)
	for _, id := range g.G.Nodes() {
		n, _ := g.G.Node(id)
		if n.MachineStates == nil {
			continue
		}
		out[n.State] = n.MachineStates.Sorted()
	}
	return out
}

// SortedNodeIDs returns g's node ids ordered by state name, for
// deterministic iteration.
func SortedNodeIDs(g *AdaptGraph) []graph.NodeID {
	nodes := g.G.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return g.State(nodes[i]) < g.State(nodes[j]) })
	return nodes
}
