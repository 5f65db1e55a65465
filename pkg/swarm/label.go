package swarm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/swarmcheck/pkg/ident"
)

// SwarmLabel is the edge weight of a swarm graph: a role issues cmd,
// emitting the event types in LogType. Before the
// confusion-freeness check LogType may hold zero or several entries
// (a structural error); afterwards it holds exactly one, the label's event
// type.
type SwarmLabel struct {
	Cmd     ident.Command
	LogType []ident.EventType
	Role    ident.Role
}

// EventType returns the label's single event type and true, or ("", false)
// if LogType does not hold exactly one entry.
func (l SwarmLabel) EventType() (ident.EventType, bool) {
	if len(l.LogType) == 1 {
		return l.LogType[0], true
	}
	return "", false
}

// String renders "cmd@role<e1,e2>", the original's label Display shape.
func (l SwarmLabel) String() string {
	events := make([]string, len(l.LogType))
	for i, e := range l.LogType {
		events[i] = string(e)
	}
	return fmt.Sprintf("%s@%s<%s>", l.Cmd, l.Role, strings.Join(events, ","))
}

// LabelKind discriminates the two MachineLabel alternatives.
type LabelKind uint8

const (
	// KindExecute marks a self-loop edge: "the role may issue this command
	// in this state".
	KindExecute LabelKind = iota
	// KindInput marks a consuming edge: "the role observes this event and
	// transitions".
	KindInput
)

// LabelKey is the comparable "determinizing key" that classifies
// MachineLabel edges by: Command(cmd) for Execute, Event(e) for Input.
// Two edges sharing a key out of the same state constitute nondeterminism.
type LabelKey struct {
	Kind  LabelKind
	Cmd   ident.Command
	Event ident.EventType
}

// String renders the key the way the original's DeterministicLabel enum
// would Display: "Command(cmd)" or "Event(e)".
func (k LabelKey) String() string {
	if k.Kind == KindExecute {
		return fmt.Sprintf("Command(%s)", k.Cmd)
	}
	return fmt.Sprintf("Event(%s)", k.Event)
}

// MachineLabel is the two-variant tagged union of projected-machine edges
//: [Execute] or [Input]. The
// unexported marker method seals the set of implementations to this
// package; callers pattern-match exhaustively with a type switch.
type MachineLabel interface {
	isMachineLabel()
	// Key returns the label's determinizing key, used by subset
	// construction (as a map key) and by the equivalence checker.
	Key() LabelKey
	String() string
}

// Execute is a self-loop MachineLabel: the role may issue cmd, observing
// the single event type in LogType, without changing local state.
type Execute struct {
	Cmd     ident.Command
	LogType []ident.EventType
}

func (Execute) isMachineLabel() {}

// Key returns Command(cmd): Execute edges are determinized on command alone.
func (e Execute) Key() LabelKey { return LabelKey{Kind: KindExecute, Cmd: e.Cmd} }

func (e Execute) String() string {
	events := make([]string, len(e.LogType))
	for i, ev := range e.LogType {
		events[i] = string(ev)
	}
	return fmt.Sprintf("Execute{%s,[%s]}", e.Cmd, strings.Join(events, ","))
}

// executeWire is the wire shape of "Execute{cmd,logType}"
// MachineLabel alternative.
type executeWire struct {
	Cmd     ident.Command      `json:"cmd"`
	LogType []ident.EventType  `json:"logType"`
}

// MarshalJSON renders Execute as {"execute":{"cmd":...,"logType":[...]}} ,
// the tagged-envelope encoding [machineLabelWire] decodes back from.
func (e Execute) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Execute executeWire `json:"execute"`
	}{Execute: executeWire{Cmd: e.Cmd, LogType: e.LogType}})
}

// Input is a consuming MachineLabel: the role observes EventType and moves
// to the target state.
type Input struct {
	EventType ident.EventType
}

func (Input) isMachineLabel() {}

// Key returns Event(e): Input edges are determinized on event type alone.
func (i Input) Key() LabelKey { return LabelKey{Kind: KindInput, Event: i.EventType} }

func (i Input) String() string { return fmt.Sprintf("Input{%s}", i.EventType) }

// inputWire is the wire shape of "Input{eventType}" MachineLabel
// alternative.
type inputWire struct {
	EventType ident.EventType `json:"eventType"`
}

// MarshalJSON renders Input as {"input":{"eventType":...}}.
func (i Input) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Input inputWire `json:"input"`
	}{Input: inputWire{EventType: i.EventType}})
}

// machineLabelWire is the tagged-envelope decode target for a MachineLabel:
// exactly one of Execute/Input is present. DecodeMachineLabel uses it to
// reconstruct the concrete alternative.
type machineLabelWire struct {
	Execute *executeWire `json:"execute,omitempty"`
	Input   *inputWire   `json:"input,omitempty"`
}

// DecodeMachineLabel parses data (one object previously produced by
// [Execute.MarshalJSON] or [Input.MarshalJSON]) back into the concrete
// MachineLabel it encodes. Used by [MachineType.UnmarshalJSON], since a Go
// interface field cannot be unmarshaled directly.
func DecodeMachineLabel(data []byte) (MachineLabel, error) {
	var wire machineLabelWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	switch {
	case wire.Execute != nil:
		return Execute{Cmd: wire.Execute.Cmd, LogType: wire.Execute.LogType}, nil
	case wire.Input != nil:
		return Input{EventType: wire.Input.EventType}, nil
	default:
		return nil, fmt.Errorf("swarm: machine label has neither execute nor input alternative")
	}
}

// Transition is a generic labelled edge record shared by the swarm graph
// (Label = SwarmLabel) and the machine graph (Label = MachineLabel).
type Transition[L any] struct {
	Source ident.State
	Target ident.State
	Label  L
}
