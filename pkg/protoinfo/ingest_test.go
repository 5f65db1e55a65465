package protoinfo

import (
	"testing"

	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

func simpleProto() swarm.SwarmProtocolType {
	return swarm.SwarmProtocolType{
		Initial: "0",
		Transitions: []swarm.Transition[swarm.SwarmLabel]{
			{Source: "0", Target: "1", Label: swarm.SwarmLabel{Cmd: "request", LogType: []ident.EventType{"partID"}, Role: "T"}},
			{Source: "1", Target: "2", Label: swarm.SwarmLabel{Cmd: "get", LogType: []ident.EventType{"pos"}, Role: "FL"}},
		},
	}
}

func TestIngestCleanProtocolHasNoDiagnostics(t *testing.T) {
	info, diags := Ingest(simpleProto())
	if len(diags) != 0 {
		t.Fatalf("Ingest() diags = %v, want none", diags)
	}
	if len(info.Graphs) != 1 {
		t.Fatalf("Graphs = %d, want 1", len(info.Graphs))
	}
	if !info.EventsOfRole("T").Has("partID") {
		t.Errorf("role T missing partID in RoleEventMap")
	}
}

func TestIngestReportsLogTypeEmpty(t *testing.T) {
	proto := swarm.SwarmProtocolType{
		Initial: "0",
		Transitions: []swarm.Transition[swarm.SwarmLabel]{
			{Source: "0", Target: "1", Label: swarm.SwarmLabel{Cmd: "request", LogType: nil, Role: "T"}},
		},
	}
	_, diags := Ingest(proto)
	found := false
	for _, d := range diags {
		if d.Code == swarm.CodeLogTypeEmpty {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %v, want a LogTypeEmpty diagnostic", diags)
	}
}

func TestIngestReportsMoreThanOneEventTypeInCommand(t *testing.T) {
	proto := swarm.SwarmProtocolType{
		Initial: "0",
		Transitions: []swarm.Transition[swarm.SwarmLabel]{
			{Source: "0", Target: "1", Label: swarm.SwarmLabel{Cmd: "request", LogType: []ident.EventType{"a", "b"}, Role: "T"}},
		},
	}
	_, diags := Ingest(proto)
	found := false
	for _, d := range diags {
		if d.Code == swarm.CodeMoreThanOneEventTypeInCommand {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %v, want a MoreThanOneEventTypeInCommand diagnostic", diags)
	}
}

func TestIngestReportsInitialStateDisconnected(t *testing.T) {
	proto := swarm.SwarmProtocolType{
		Initial: "99",
		Transitions: []swarm.Transition[swarm.SwarmLabel]{
			{Source: "0", Target: "1", Label: swarm.SwarmLabel{Cmd: "request", LogType: []ident.EventType{"partID"}, Role: "T"}},
		},
	}
	_, diags := Ingest(proto)
	if len(diags) != 1 || diags[0].Code != swarm.CodeInitialStateDisconnected {
		t.Fatalf("diags = %v, want exactly one InitialStateDisconnected", diags)
	}
}

func TestIngestReportsStateUnreachable(t *testing.T) {
	proto := swarm.SwarmProtocolType{
		Initial: "0",
		Transitions: []swarm.Transition[swarm.SwarmLabel]{
			{Source: "0", Target: "1", Label: swarm.SwarmLabel{Cmd: "request", LogType: []ident.EventType{"partID"}, Role: "T"}},
			{Source: "5", Target: "6", Label: swarm.SwarmLabel{Cmd: "other", LogType: []ident.EventType{"x"}, Role: "R"}},
		},
	}
	_, diags := Ingest(proto)
	found := false
	for _, d := range diags {
		if d.Code == swarm.CodeStateUnreachable {
			found = true
		}
	}
	if !found {
		t.Errorf("diags = %v, want a StateUnreachable diagnostic for the orphan island", diags)
	}
}

func TestConfusionFreeDetectsDuplicateEventAndCommand(t *testing.T) {
	proto := swarm.SwarmProtocolType{
		Initial: "0",
		Transitions: []swarm.Transition[swarm.SwarmLabel]{
			{Source: "0", Target: "1", Label: swarm.SwarmLabel{Cmd: "request", LogType: []ident.EventType{"partID"}, Role: "T"}},
			{Source: "0", Target: "2", Label: swarm.SwarmLabel{Cmd: "request", LogType: []ident.EventType{"partID"}, Role: "T"}},
		},
	}
	info, _ := Ingest(proto)
	diags := ConfusionFree(info.Graphs[0])

	var events, cmds int
	for _, d := range diags {
		switch d.Code {
		case swarm.CodeEventEmittedMultipleTimes:
			events++
		case swarm.CodeCommandOnMultipleTransitions:
			cmds++
		}
	}
	if events != 2 {
		t.Errorf("EventEmittedMultipleTimes diagnostics = %d, want 2 (undeduplicated)", events)
	}
	if cmds != 2 {
		t.Errorf("CommandOnMultipleTransitions diagnostics = %d, want 2", cmds)
	}
}

func TestInfinitelyLoopingEventsOnUnterminatedCycle(t *testing.T) {
	proto := swarm.SwarmProtocolType{
		Initial: "0",
		Transitions: []swarm.Transition[swarm.SwarmLabel]{
			{Source: "0", Target: "1", Label: swarm.SwarmLabel{Cmd: "a", LogType: []ident.EventType{"a"}, Role: "R1"}},
			{Source: "1", Target: "2", Label: swarm.SwarmLabel{Cmd: "b", LogType: []ident.EventType{"b"}, Role: "R2"}},
			{Source: "2", Target: "0", Label: swarm.SwarmLabel{Cmd: "c", LogType: []ident.EventType{"c"}, Role: "R1"}},
		},
	}
	info, diags := Ingest(proto)
	if len(diags) != 0 {
		t.Fatalf("Ingest() diags = %v, want none", diags)
	}
	for _, e := range []ident.EventType{"a", "b", "c"} {
		if !info.InfinitelyLoopingEvents.Has(e) {
			t.Errorf("InfinitelyLoopingEvents missing %s, got %v", e, ident.SortedEvents(info.InfinitelyLoopingEvents))
		}
	}
}

func TestInfinitelyLoopingEventsEmptyWhenTerminalReachable(t *testing.T) {
	info, _ := Ingest(simpleProto())
	if len(info.InfinitelyLoopingEvents) != 0 {
		t.Errorf("InfinitelyLoopingEvents = %v, want none (protocol terminates)", ident.SortedEvents(info.InfinitelyLoopingEvents))
	}
}
