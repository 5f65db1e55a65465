package api

import (
	"testing"

	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// trans builds a single swarm transition, mirroring the "0→1 request@T<partID>"
// shorthand used throughout the canonical examples.
func trans(src, cmd, role, event, dst string) swarm.Transition[swarm.SwarmLabel] {
	return swarm.Transition[swarm.SwarmLabel]{
		Source: ident.State(src),
		Target: ident.State(dst),
		Label: swarm.SwarmLabel{
			Cmd:     ident.Command(cmd),
			LogType: []ident.EventType{ident.EventType(event)},
			Role:    ident.Role(role),
		},
	}
}

// warehouseProtocol is the canonical warehouse scenario's singleton protocol:
// 0→1 request@T<partID>, 1→2 get@FL<pos>, 2→0 deliver@T<part>, 0→3 close@D<time>.
func warehouseProtocol() swarm.SwarmProtocolType {
	return swarm.SwarmProtocolType{
		Initial: "0",
		Transitions: []swarm.Transition[swarm.SwarmLabel]{
			trans("0", "request", "T", "partID", "1"),
			trans("1", "get", "FL", "pos", "2"),
			trans("2", "deliver", "T", "part", "0"),
			trans("0", "close", "D", "time", "3"),
		},
	}
}

func eventSetEquals(t *testing.T, got ident.EventSet, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", ident.SortedEvents(got), want)
	}
	for _, w := range want {
		if !got.Has(ident.EventType(w)) {
			t.Fatalf("got %v, missing %q", ident.SortedEvents(got), w)
		}
	}
}

// TestExactWellFormedSub_Warehouse the exact
// subscription on the warehouse singleton protocol.
func TestExactWellFormedSub_Warehouse(t *testing.T) {
	protos := swarm.InterfacingProtocols{warehouseProtocol()}
	result := ExactWellFormedSub(protos, swarm.NewSubscription(), nil)
	if !result.OK() {
		t.Fatalf("ExactWellFormedSub errored: %v", result.Errors)
	}

	sub := result.Value
	eventSetEquals(t, sub.Of("T"), "partID", "part", "pos", "time")
	eventSetEquals(t, sub.Of("FL"), "partID", "pos", "time")
	eventSetEquals(t, sub.Of("D"), "partID", "part", "time")
}

// TestExactWellFormedSub_Warehouse_Minimal verifies invariant 4:
// removing any single event from any role's exact subscription must make
// CheckComposedSwarm fail.
func TestExactWellFormedSub_Warehouse_Minimal(t *testing.T) {
	protos := swarm.InterfacingProtocols{warehouseProtocol()}
	exact := ExactWellFormedSub(protos, swarm.NewSubscription(), nil).Value

	if !CheckComposedSwarm(protos, exact, nil).OK() {
		t.Fatalf("exact subscription itself is not well-formed")
	}

	for _, role := range exact.Roles() {
		for _, event := range ident.SortedEvents(exact.Of(role)) {
			reduced := exact.Clone()
			reduced[role] = exact.Of(role).Clone()
			delete(reduced[role], event)
			if CheckComposedSwarm(protos, reduced, nil).OK() {
				t.Errorf("removing %s from %s's subscription should break well-formedness", event, role)
			}
		}
	}
}

// factoryProtocol is the canonical factory scenario's second protocol, sharing the
// T role's partID/part events with the warehouse protocol as the interface.
func factoryProtocol() swarm.SwarmProtocolType {
	return swarm.SwarmProtocolType{
		Initial: "0",
		Transitions: []swarm.Transition[swarm.SwarmLabel]{
			trans("0", "request", "T", "partID", "1"),
			trans("1", "deliver", "T", "part", "2"),
			trans("2", "build", "F", "car", "3"),
		},
	}
}

// TestExactWellFormedSub_Composition composing
// the warehouse with the factory protocol makes F additionally subscribe to
// partID and part (the interfacing events) alongside its own car.
func TestExactWellFormedSub_Composition(t *testing.T) {
	protos := swarm.InterfacingProtocols{warehouseProtocol(), factoryProtocol()}
	result := ExactWellFormedSub(protos, swarm.NewSubscription(), nil)
	if !result.OK() {
		t.Fatalf("ExactWellFormedSub errored: %v", result.Errors)
	}

	sub := result.Value
	fSub := sub.Of("F")
	for _, want := range []string{"partID", "part", "car"} {
		if !fSub.Has(ident.EventType(want)) {
			t.Errorf("F not subscribed to %s, got %v", want, ident.SortedEvents(fSub))
		}
	}

	if !CheckComposedSwarm(protos, sub, nil).OK() {
		t.Fatalf("composed exact subscription is not well-formed")
	}
}

// TestExactWellFormedSub_Composition_NoSpuriousBranch guards against
// treating concurrent, non-interfacing events from different members as a
// branching group. D's close@time and F's build@car become concurrent
// siblings at the same composed state once warehouse and factory interleave,
// but car was never a branch alternative to time in either source protocol,
// so D's exact subscription must pick up time (warehouse's real branch)
// without being dragged into car.
func TestExactWellFormedSub_Composition_NoSpuriousBranch(t *testing.T) {
	protos := swarm.InterfacingProtocols{warehouseProtocol(), factoryProtocol()}
	result := ExactWellFormedSub(protos, swarm.NewSubscription(), nil)
	if !result.OK() {
		t.Fatalf("ExactWellFormedSub errored: %v", result.Errors)
	}

	sub := result.Value
	dSub := sub.Of("D")
	if !dSub.Has(ident.EventType("time")) {
		t.Errorf("D not subscribed to time, got %v", ident.SortedEvents(dSub))
	}
	if dSub.Has(ident.EventType("car")) {
		t.Errorf("D spuriously subscribed to car, got %v", ident.SortedEvents(dSub))
	}

	if !CheckComposedSwarm(protos, sub, nil).OK() {
		t.Fatalf("composed exact subscription is not well-formed")
	}
}

// TestRevisedProjection_Warehouse projecting
// role T of the warehouse protocol onto its exact subscription.
func TestRevisedProjection_Warehouse(t *testing.T) {
	protos := swarm.InterfacingProtocols{warehouseProtocol()}
	exact := ExactWellFormedSub(protos, swarm.NewSubscription(), nil).Value

	result := RevisedProjection(warehouseProtocol(), exact, "T", false, nil)
	if !result.OK() {
		t.Fatalf("RevisedProjection errored: %v", result.Errors)
	}

	mt := result.Value
	var gotExecute, gotInput int
	for _, tr := range mt.Transitions {
		switch lbl := tr.Label.(type) {
		case swarm.Execute:
			gotExecute++
			if lbl.Cmd != "request" && lbl.Cmd != "deliver" {
				t.Errorf("unexpected Execute command %s", lbl.Cmd)
			}
		case swarm.Input:
			gotInput++
		}
	}
	if gotExecute != 2 {
		t.Errorf("Execute edges = %d, want 2 (request, deliver)", gotExecute)
	}
	if gotInput == 0 {
		t.Errorf("expected at least one Input edge")
	}
}

// TestCheckComposedProjection_RoundTrip verifies invariant 8: the
// synthesized projection always passes CheckComposedProjection against
// itself.
func TestCheckComposedProjection_RoundTrip(t *testing.T) {
	protos := swarm.InterfacingProtocols{warehouseProtocol()}
	exact := ExactWellFormedSub(protos, swarm.NewSubscription(), nil).Value

	projected := ProjectCombine(protos, exact, "T", true, nil)
	if !projected.OK() {
		t.Fatalf("ProjectCombine errored: %v", projected.Errors)
	}

	check := CheckComposedProjection(protos, exact, "T", projected.Value, nil)
	if !check.OK() {
		t.Errorf("CheckComposedProjection(self) = %v, want OK", check.Errors)
	}
}

// loopProtocol is an infinite-cycle scenario: 0→1 a@R1, 1→2 b@R2,
// 2→0 c@R1 with no terminal state.
func loopProtocol() swarm.SwarmProtocolType {
	return swarm.SwarmProtocolType{
		Initial: "0",
		Transitions: []swarm.Transition[swarm.SwarmLabel]{
			trans("0", "a", "R1", "a", "1"),
			trans("1", "b", "R2", "b", "2"),
			trans("2", "c", "R1", "c", "0"),
		},
	}
}

// TestExactWellFormedSub_Loop every event is
// infinitely looping, and the looping rule forces R1 and R2 to share at
// least one event in the cycle.
func TestExactWellFormedSub_Loop(t *testing.T) {
	protos := swarm.InterfacingProtocols{loopProtocol()}
	result := ExactWellFormedSub(protos, swarm.NewSubscription(), nil)
	if !result.OK() {
		t.Fatalf("ExactWellFormedSub errored: %v", result.Errors)
	}

	sub := result.Value
	shared := false
	for _, e := range []string{"a", "b", "c"} {
		if sub.Of("R1").Has(ident.EventType(e)) && sub.Of("R2").Has(ident.EventType(e)) {
			shared = true
		}
	}
	if !shared {
		t.Errorf("R1 (%v) and R2 (%v) share no event in the cycle", ident.SortedEvents(sub.Of("R1")), ident.SortedEvents(sub.Of("R2")))
	}
	if !CheckComposedSwarm(protos, sub, nil).OK() {
		t.Fatalf("loop exact subscription is not well-formed")
	}
}

// TestComposeProtocols_Warehouse exercises compose_protocols on a
// single protocol: the explicit composition of one member is itself.
func TestComposeProtocols_Warehouse(t *testing.T) {
	protos := swarm.InterfacingProtocols{warehouseProtocol()}
	result := ComposeProtocols(protos, nil)
	if !result.OK() {
		t.Fatalf("ComposeProtocols errored: %v", result.Errors)
	}
	if len(result.Value.Transitions) != len(warehouseProtocol().Transitions) {
		t.Errorf("composed transitions = %d, want %d", len(result.Value.Transitions), len(warehouseProtocol().Transitions))
	}
}

// TestOverapproximatedWellFormedSub_Warehouse verifies invariant 3:
// every granularity's over-approximation is a superset, per role, of the
// exact subscription.
func TestOverapproximatedWellFormedSub_Warehouse(t *testing.T) {
	protos := swarm.InterfacingProtocols{warehouseProtocol(), factoryProtocol()}
	exact := ExactWellFormedSub(protos, swarm.NewSubscription(), nil).Value

	for _, g := range []swarm.Granularity{swarm.Fine, swarm.Medium, swarm.Coarse, swarm.TwoStep} {
		over := OverapproximatedWellFormedSub(protos, swarm.NewSubscription(), g, nil)
		if !over.OK() {
			t.Fatalf("granularity %s errored: %v", g, over.Errors)
		}
		for _, role := range exact.Roles() {
			for e := range exact.Of(role) {
				if !over.Value.Of(role).Has(e) {
					t.Errorf("granularity %s: role %s missing exact event %s (has %v)", g, role, e, ident.SortedEvents(over.Value.Of(role)))
				}
			}
		}
		if !CheckComposedSwarm(protos, over.Value, nil).OK() {
			t.Errorf("granularity %s overapproximation is not well-formed", g)
		}
	}
}
