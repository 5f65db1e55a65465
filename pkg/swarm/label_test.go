package swarm

import (
	"testing"

	"github.com/matzehuels/swarmcheck/pkg/ident"
)

func TestSwarmLabelEventType(t *testing.T) {
	one := SwarmLabel{Cmd: "request", LogType: []ident.EventType{"partID"}, Role: "T"}
	if e, ok := one.EventType(); !ok || e != "partID" {
		t.Errorf("EventType() = (%v, %v), want (partID, true)", e, ok)
	}

	empty := SwarmLabel{Cmd: "request", Role: "T"}
	if _, ok := empty.EventType(); ok {
		t.Errorf("EventType() ok = true for empty LogType, want false")
	}

	many := SwarmLabel{Cmd: "request", LogType: []ident.EventType{"a", "b"}, Role: "T"}
	if _, ok := many.EventType(); ok {
		t.Errorf("EventType() ok = true for LogType of length 2, want false")
	}
}

func TestMachineLabelKeysDistinguishVariants(t *testing.T) {
	ex := Execute{Cmd: "request", LogType: []ident.EventType{"partID"}}
	in := Input{EventType: "partID"}

	if ex.Key() == in.Key() {
		t.Errorf("Execute and Input keys collided: %v", ex.Key())
	}

	ex2 := Execute{Cmd: "request", LogType: []ident.EventType{"other"}}
	if ex.Key() != ex2.Key() {
		t.Errorf("Execute.Key() should ignore LogType, got %v != %v", ex.Key(), ex2.Key())
	}
}

func TestMachineLabelSealed(t *testing.T) {
	var labels []MachineLabel = []MachineLabel{Execute{Cmd: "c"}, Input{EventType: "e"}}
	for _, l := range labels {
		switch v := l.(type) {
		case Execute:
			if v.Cmd != "c" {
				t.Errorf("Execute.Cmd = %v, want c", v.Cmd)
			}
		case Input:
			if v.EventType != "e" {
				t.Errorf("Input.EventType = %v, want e", v.EventType)
			}
		default:
			t.Errorf("unexpected MachineLabel implementation %T", v)
		}
	}
}
