package adapt

import (
	"testing"

	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/protoinfo"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

func warehouseCombined(t *testing.T) *protoinfo.ProtoInfo {
	t.Helper()
	proto := swarm.SwarmProtocolType{
		Initial: "0",
		Transitions: []swarm.Transition[swarm.SwarmLabel]{
			{Source: "0", Target: "1", Label: swarm.SwarmLabel{Cmd: "request", LogType: []ident.EventType{"partID"}, Role: "T"}},
			{Source: "1", Target: "2", Label: swarm.SwarmLabel{Cmd: "get", LogType: []ident.EventType{"pos"}, Role: "FL"}},
			{Source: "2", Target: "0", Label: swarm.SwarmLabel{Cmd: "deliver", LogType: []ident.EventType{"part"}, Role: "T"}},
		},
	}
	info, diags := protoinfo.Ingest(proto)
	if len(diags) != 0 {
		t.Fatalf("Ingest() diags = %v, want none", diags)
	}
	return info
}

func fullSub() swarm.Subscription {
	s := swarm.NewSubscription()
	s.AddAll("T", ident.NewEventSet("partID", "pos", "part"))
	s.AddAll("FL", ident.NewEventSet("partID", "pos"))
	return s
}

// userMachineMatchingT builds a hand-written T machine that mirrors the
// warehouse protocol's own projection exactly, so adapting it should
// correspond every composed state back to a singleton original state.
func userMachineMatchingT() *swarm.MachineGraph {
	mg := swarm.NewMachineGraph()
	mg.Initial = mg.NodeFor("s0")
	mg.AddTransition("s0", "s0", swarm.Execute{Cmd: "request", LogType: []ident.EventType{"partID"}})
	mg.AddTransition("s0", "s1", swarm.Input{EventType: "partID"})
	mg.AddTransition("s1", "s2", swarm.Input{EventType: "pos"})
	mg.AddTransition("s2", "s2", swarm.Execute{Cmd: "deliver", LogType: []ident.EventType{"part"}})
	mg.AddTransition("s2", "s0", swarm.Input{EventType: "part"})
	return mg
}

// TestAdaptedProjectionSingleProtocolPreservesCorrespondence exercises a
// combined ProtoInfo with a single member: AdaptedProjection should fuse
// the user machine with role T's own projection and every composed node
// should retain a non-nil machine_states correspondence back to the user
// machine (nothing from a second slot exists to widen it).
func TestAdaptedProjectionSingleProtocolPreservesCorrespondence(t *testing.T) {
	combined := warehouseCombined(t)
	user := userMachineMatchingT()

	result, diags := AdaptedProjection(combined, fullSub(), "T", user, 0, false)
	if len(diags) != 0 {
		t.Fatalf("AdaptedProjection diags = %v, want none", diags)
	}
	if result.G.NodeCount() == 0 {
		t.Fatal("AdaptedProjection produced an empty graph")
	}

	corr := result.ProjToMachineStates()
	if len(corr) == 0 {
		t.Fatal("ProjToMachineStates() is empty, want every composed node correlated to the user machine")
	}
}

// TestAdaptedProjectionEmptyCombinedReturnsLiftedUser exercises the
// boundary: with no member protocols, AdaptedProjection just lifts the user
// machine unchanged.
func TestAdaptedProjectionEmptyCombinedReturnsLiftedUser(t *testing.T) {
	user := userMachineMatchingT()
	result, diags := AdaptedProjection(&protoinfo.ProtoInfo{}, fullSub(), "T", user, 0, false)
	if len(diags) != 0 {
		t.Fatalf("diags = %v, want none", diags)
	}
	if result.G.NodeCount() != user.G.NodeCount() {
		t.Errorf("NodeCount() = %d, want %d (lifted user machine unchanged)", result.G.NodeCount(), user.G.NodeCount())
	}
}

// TestEquivalentOfIdenticalMachinesReportsNothing verifies the identity
// invariant: equivalent(X, xi, X, xi) == ∅.
func TestEquivalentOfIdenticalMachinesReportsNothing(t *testing.T) {
	mg := userMachineMatchingT()
	diags := Equivalent(mg, mg.Initial, mg, mg.Initial)
	if len(diags) != 0 {
		t.Errorf("Equivalent(X,X) = %v, want none", diags)
	}
}

// TestEquivalentReportsMissingTransition verifies that a machine missing
// one of the other's edges out of a paired state is reported via
// MissingTransition.
func TestEquivalentReportsMissingTransition(t *testing.T) {
	left := swarm.NewMachineGraph()
	left.Initial = left.NodeFor("0")
	left.AddTransition("0", "1", swarm.Input{EventType: "a"})
	left.AddTransition("0", "2", swarm.Input{EventType: "b"})

	right := swarm.NewMachineGraph()
	right.Initial = right.NodeFor("0")
	right.AddTransition("0", "1", swarm.Input{EventType: "a"})

	diags := Equivalent(left, left.Initial, right, right.Initial)
	found := false
	for _, d := range diags {
		if d.Code == swarm.CodeMissingTransition {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %v, want a MissingTransition violation", diags)
	}
}

// TestEquivalentReportsNonDeterministic verifies that two outgoing edges
// sharing a determinizing key on the same side is reported via
// NonDeterministic, and the walk does not descend past that pair.
func TestEquivalentReportsNonDeterministic(t *testing.T) {
	left := swarm.NewMachineGraph()
	left.Initial = left.NodeFor("0")
	left.AddTransition("0", "1", swarm.Input{EventType: "a"})
	left.AddTransition("0", "2", swarm.Input{EventType: "a"})

	right := swarm.NewMachineGraph()
	right.Initial = right.NodeFor("0")
	right.AddTransition("0", "1", swarm.Input{EventType: "a"})

	diags := Equivalent(left, left.Initial, right, right.Initial)
	found := false
	for _, d := range diags {
		if d.Code == swarm.CodeNonDeterministic {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %v, want a NonDeterministic violation", diags)
	}
}
