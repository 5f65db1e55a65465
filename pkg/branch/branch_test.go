package branch

import (
	"reflect"
	"testing"

	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/protoinfo"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// branchingInfo ingests a protocol with a single branch (no join): state 1
// offers b and c as alternatives, each leading to its own leaf via d or e.
func branchingInfo(t *testing.T) *protoinfo.ProtoInfo {
	t.Helper()
	proto := swarm.SwarmProtocolType{
		Initial: "0",
		Transitions: []swarm.Transition[swarm.SwarmLabel]{
			{Source: "0", Target: "1", Label: swarm.SwarmLabel{Cmd: "a0", LogType: []ident.EventType{"a"}, Role: "R1"}},
			{Source: "1", Target: "2", Label: swarm.SwarmLabel{Cmd: "b0", LogType: []ident.EventType{"b"}, Role: "R2"}},
			{Source: "1", Target: "3", Label: swarm.SwarmLabel{Cmd: "c0", LogType: []ident.EventType{"c"}, Role: "R2"}},
			{Source: "2", Target: "4", Label: swarm.SwarmLabel{Cmd: "d0", LogType: []ident.EventType{"d"}, Role: "R1"}},
			{Source: "3", Target: "4", Label: swarm.SwarmLabel{Cmd: "e0", LogType: []ident.EventType{"e"}, Role: "R1"}},
		},
	}
	info, diags := protoinfo.Ingest(proto)
	if len(diags) != 0 {
		t.Fatalf("Ingest() diags = %v, want none", diags)
	}
	return info
}

// branchingMachine mirrors branchingInfo's shape as a plain Input-labeled
// machine, the form [Reachability] consumes.
func branchingMachine() *swarm.MachineGraph {
	mg := swarm.NewMachineGraph()
	mg.Initial = mg.NodeFor("0")
	mg.AddTransition("0", "1", swarm.Input{EventType: "a"})
	mg.AddTransition("1", "2", swarm.Input{EventType: "b"})
	mg.AddTransition("1", "3", swarm.Input{EventType: "c"})
	mg.AddTransition("2", "4", swarm.Input{EventType: "d"})
	mg.AddTransition("3", "4", swarm.Input{EventType: "e"})
	return mg
}

// TestSpecialEventTypesIsTheBranchGroupUnion verifies that, with no
// joining events, the special set is exactly the union of branching groups.
func TestSpecialEventTypesIsTheBranchGroupUnion(t *testing.T) {
	info := branchingInfo(t)
	special := SpecialEventTypes(info)
	for _, e := range []ident.EventType{"b", "c"} {
		if !special.Has(e) {
			t.Errorf("SpecialEventTypes() = %v, missing %s", ident.SortedEvents(special), e)
		}
	}
	if special.Has("a") || special.Has("d") || special.Has("e") {
		t.Errorf("SpecialEventTypes() = %v, want only the branch group {b,c}", ident.SortedEvents(special))
	}
}

// TestReachabilityStopsAtBranchButContinuesPastNonSpecial verifies that
// reachability from "a" collects both branch alternatives but does not
// walk past them, while reachability from a non-special event continues
// to its successor.
func TestReachabilityStopsAtBranchButContinuesPastNonSpecial(t *testing.T) {
	info := branchingInfo(t)
	mg := branchingMachine()

	got := Reachability(mg, info)

	want := map[ident.EventType][]ident.EventType{
		"a": {"b", "c"},
		"b": {"d"},
		"c": {"e"},
	}
	for ev, wantList := range want {
		gotList := got[ev]
		if !reflect.DeepEqual(gotList, wantList) {
			t.Errorf("Reachability()[%s] = %v, want %v", ev, gotList, wantList)
		}
	}
	for _, ev := range []ident.EventType{"d", "e"} {
		if len(got[ev]) != 0 {
			t.Errorf("Reachability()[%s] = %v, want none (leaf event)", ev, got[ev])
		}
	}
}
