package projection

import (
	"testing"

	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// warehouseGraph builds the canonical warehouse scenario's protocol directly as a
// [swarm.Graph]: 0→1 request@T<partID>, 1→2 get@FL<pos>, 2→0 deliver@T<part>,
// 0→3 close@D<time>.
func warehouseGraph() *swarm.Graph {
	g := swarm.NewGraph()
	g.Initial = g.NodeFor("0")
	g.AddTransition(swarm.Transition[swarm.SwarmLabel]{Source: "0", Target: "1", Label: swarm.SwarmLabel{Cmd: "request", LogType: []ident.EventType{"partID"}, Role: "T"}})
	g.AddTransition(swarm.Transition[swarm.SwarmLabel]{Source: "1", Target: "2", Label: swarm.SwarmLabel{Cmd: "get", LogType: []ident.EventType{"pos"}, Role: "FL"}})
	g.AddTransition(swarm.Transition[swarm.SwarmLabel]{Source: "2", Target: "0", Label: swarm.SwarmLabel{Cmd: "deliver", LogType: []ident.EventType{"part"}, Role: "T"}})
	g.AddTransition(swarm.Transition[swarm.SwarmLabel]{Source: "0", Target: "3", Label: swarm.SwarmLabel{Cmd: "close", LogType: []ident.EventType{"time"}, Role: "D"}})
	return g
}

func fullSub() swarm.Subscription {
	s := swarm.NewSubscription()
	s.AddAll("T", ident.NewEventSet("partID", "pos", "part", "time"))
	s.AddAll("FL", ident.NewEventSet("partID", "pos", "time"))
	s.AddAll("D", ident.NewEventSet("partID", "part", "time"))
	return s
}

// TestProjectTruckWarehouse exercises projecting T onto the warehouse
// protocol under the exact subscription.
func TestProjectTruckWarehouse(t *testing.T) {
	g := warehouseGraph()
	sub := fullSub()
	mg := Project(g, sub, "T", false)

	var execs, inputs []string
	for _, e := range mg.G.Edges() {
		switch l := e.Weight.(type) {
		case swarm.Execute:
			execs = append(execs, string(l.Cmd))
		case swarm.Input:
			inputs = append(inputs, string(l.EventType))
		}
	}
	if len(execs) != 2 {
		t.Fatalf("Execute edges = %v, want 2 (request, deliver)", execs)
	}
	if len(inputs) != 4 {
		t.Fatalf("Input edges = %v, want 4", inputs)
	}
}

// TestProjectRetainsOnlyInitialWhenSubscriptionEmpty exercises the
// boundary case: with an empty subscription only the initial node is
// retained and no edges are interesting.
func TestProjectRetainsOnlyInitialWhenSubscriptionEmpty(t *testing.T) {
	g := warehouseGraph()
	mg := Project(g, swarm.NewSubscription(), "T", false)
	if mg.G.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1 (just the initial)", mg.G.NodeCount())
	}
	if len(mg.G.Edges()) != 0 {
		t.Errorf("Edges() = %v, want none", mg.G.Edges())
	}
}

// TestProjectMinimizeIsDeterministic verifies that no two outgoing edges
// from the same state carry the same MachineLabel key after
// minimize=true (subset construction guarantees this; partition refinement
// must preserve it).
func TestProjectMinimizeIsDeterministic(t *testing.T) {
	g := warehouseGraph()
	mg := Project(g, fullSub(), "T", true)

	for _, n := range mg.G.Nodes() {
		seen := map[swarm.LabelKey]bool{}
		for _, eid := range mg.G.OutEdges(n) {
			e, _ := mg.G.Edge(eid)
			key := e.Weight.Key()
			if seen[key] {
				t.Errorf("state %s has two outgoing edges keyed %s", mg.State(n), key)
			}
			seen[key] = true
		}
	}
}

// TestMinimizeOnAlreadyMinimalDFAIsFixedPoint verifies that partition
// refinement applied twice in a row leaves the transition count unchanged.
func TestMinimizeOnAlreadyMinimalDFAIsFixedPoint(t *testing.T) {
	g := warehouseGraph()
	once := Minimize(SubsetConstruct(Project(g, fullSub(), "T", false)))
	twice := Minimize(once)

	if once.G.NodeCount() != twice.G.NodeCount() {
		t.Errorf("minimizing twice changed node count: %d vs %d", once.G.NodeCount(), twice.G.NodeCount())
	}
	if len(once.G.Edges()) != len(twice.G.Edges()) {
		t.Errorf("minimizing twice changed edge count: %d vs %d", len(once.G.Edges()), len(twice.G.Edges()))
	}
}

// TestSubsetConstructionNodeNamesAreSortedSets exercises the
// subset-construction state-naming rule.
func TestSubsetConstructionNodeNamesAreSortedSets(t *testing.T) {
	g := warehouseGraph()
	det := SubsetConstruct(Project(g, fullSub(), "T", false))
	initName := string(det.State(det.Initial))
	if initName[0] != '{' {
		t.Errorf("initial state name %q does not start with '{'", initName)
	}
}
