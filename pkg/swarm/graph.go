package swarm

import (
	"github.com/matzehuels/swarmcheck/pkg/graph"
	"github.com/matzehuels/swarmcheck/pkg/ident"
)

// Graph is a swarm graph: a directed multigraph with State node weights and
// SwarmLabel edge weights, plus a designated initial node.
type Graph struct {
	G       *graph.Graph[ident.State, SwarmLabel]
	Initial graph.NodeID
	index   map[ident.State]graph.NodeID
}

// NewGraph returns an empty swarm graph.
func NewGraph() *Graph {
	return &Graph{
		G:     graph.New[ident.State, SwarmLabel](),
		index: make(map[ident.State]graph.NodeID),
	}
}

// NodeFor returns the node id for state, creating it lazily.
func (g *Graph) NodeFor(s ident.State) graph.NodeID {
	if id, ok := g.index[s]; ok {
		return id
	}
	id := g.G.AddNode(s)
	g.index[s] = id
	return id
}

// Lookup returns the node id already registered for state, if any.
func (g *Graph) Lookup(s ident.State) (graph.NodeID, bool) {
	id, ok := g.index[s]
	return id, ok
}

// State returns the state name of a node id.
func (g *Graph) State(id graph.NodeID) ident.State {
	s, _ := g.G.Node(id)
	return s
}

// AddTransition appends an edge for t, creating endpoint nodes lazily.
func (g *Graph) AddTransition(t Transition[SwarmLabel]) graph.EdgeID {
	from := g.NodeFor(t.Source)
	to := g.NodeFor(t.Target)
	id, _ := g.G.AddEdge(from, to, t.Label)
	return id
}

// FromGraph wraps an already-built generic graph — typically the output of
// [graph.PairProduct] run over two swarm graphs — as a Graph, reconstructing the state→node index by
// scanning the node weights.
func FromGraph(g *graph.Graph[ident.State, SwarmLabel], initial graph.NodeID) *Graph {
	idx := make(map[ident.State]graph.NodeID, g.NodeCount())
	for _, n := range g.Nodes() {
		s, _ := g.Node(n)
		idx[s] = n
	}
	return &Graph{G: g, Initial: initial, index: idx}
}

// ToSwarmProtocolType renders g back to the external SwarmProtocolType
// encoding, walking edges in insertion order.
func (g *Graph) ToSwarmProtocolType() SwarmProtocolType {
	pt := SwarmProtocolType{Initial: g.State(g.Initial)}
	for _, e := range g.G.Edges() {
		pt.Transitions = append(pt.Transitions, Transition[SwarmLabel]{
			Source: g.State(e.From),
			Target: g.State(e.To),
			Label:  e.Weight,
		})
	}
	return pt
}

// MachineGraph is a machine graph: same carrier as [Graph], with
// MachineLabel edges.
type MachineGraph struct {
	G       *graph.Graph[ident.State, MachineLabel]
	Initial graph.NodeID
	index   map[ident.State]graph.NodeID
}

// NewMachineGraph returns an empty machine graph.
func NewMachineGraph() *MachineGraph {
	return &MachineGraph{
		G:     graph.New[ident.State, MachineLabel](),
		index: make(map[ident.State]graph.NodeID),
	}
}

// NodeFor returns the node id for state, creating it lazily.
func (g *MachineGraph) NodeFor(s ident.State) graph.NodeID {
	if id, ok := g.index[s]; ok {
		return id
	}
	id := g.G.AddNode(s)
	g.index[s] = id
	return id
}

// Lookup returns the node id already registered for state, if any.
func (g *MachineGraph) Lookup(s ident.State) (graph.NodeID, bool) {
	id, ok := g.index[s]
	return id, ok
}

// State returns the state name of a node id.
func (g *MachineGraph) State(id graph.NodeID) ident.State {
	s, _ := g.G.Node(id)
	return s
}

// AddTransition appends an edge for t, creating endpoint nodes lazily.
func (g *MachineGraph) AddTransition(source, target ident.State, label MachineLabel) graph.EdgeID {
	from := g.NodeFor(source)
	to := g.NodeFor(target)
	id, _ := g.G.AddEdge(from, to, label)
	return id
}

// FromMachineGraph wraps an already-built generic graph — typically the
// output of [graph.PairProduct] run over two machine graphs —
// as a MachineGraph, reconstructing the state→node index.
func FromMachineGraph(g *graph.Graph[ident.State, MachineLabel], initial graph.NodeID) *MachineGraph {
	idx := make(map[ident.State]graph.NodeID, g.NodeCount())
	for _, n := range g.Nodes() {
		s, _ := g.Node(n)
		idx[s] = n
	}
	return &MachineGraph{G: g, Initial: initial, index: idx}
}

// FromMachineType materializes mt (typically a caller-supplied machine
// passed into check_composed_projection or projection_information, spec
// §6) into a MachineGraph, creating nodes lazily in transition order.
func FromMachineType(mt MachineType) *MachineGraph {
	g := NewMachineGraph()
	g.Initial = g.NodeFor(mt.Initial)
	for _, t := range mt.Transitions {
		g.AddTransition(t.Source, t.Target, t.Label)
	}
	return g
}

// ToMachineType renders g back to the external MachineType encoding,
// walking edges in insertion order.
func (g *MachineGraph) ToMachineType() MachineType {
	mt := MachineType{Initial: g.State(g.Initial)}
	for _, e := range g.G.Edges() {
		mt.Transitions = append(mt.Transitions, Transition[MachineLabel]{
			Source: g.State(e.From),
			Target: g.State(e.To),
			Label:  e.Weight,
		})
	}
	return mt
}
