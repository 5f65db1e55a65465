package swarm

import (
	"encoding/json"

	"github.com/matzehuels/swarmcheck/pkg/ident"
)

// SwarmProtocolType is the stable textual encoding of a swarm protocol
// exchanged with ingestion/serialization collaborators.
type SwarmProtocolType struct {
	Initial     ident.State               `json:"initial"`
	Transitions []Transition[SwarmLabel]  `json:"transitions"`
}

// MachineType is the stable textual encoding of a projected machine
// exchanged with ingestion/serialization collaborators.
type MachineType struct {
	Initial     ident.State                `json:"initial"`
	Transitions []Transition[MachineLabel] `json:"transitions"`
}

// machineTransitionWire is the JSON shape of one MachineType transition,
// with Label left raw so it can be routed to [DecodeMachineLabel].
type machineTransitionWire struct {
	Source ident.State     `json:"source"`
	Target ident.State     `json:"target"`
	Label  json.RawMessage `json:"label"`
}

// MarshalJSON renders mt with each transition's Label encoded via its
// concrete type's MarshalJSON (Execute/Input's tagged-envelope form).
func (mt MachineType) MarshalJSON() ([]byte, error) {
	wire := struct {
		Initial     ident.State              `json:"initial"`
		Transitions []machineTransitionWire  `json:"transitions"`
	}{Initial: mt.Initial, Transitions: make([]machineTransitionWire, len(mt.Transitions))}

	for i, t := range mt.Transitions {
		labelData, err := json.Marshal(t.Label)
		if err != nil {
			return nil, err
		}
		wire.Transitions[i] = machineTransitionWire{Source: t.Source, Target: t.Target, Label: labelData}
	}
	return json.Marshal(wire)
}

// UnmarshalJSON is MarshalJSON's inverse: a Go interface field (MachineLabel)
// cannot be unmarshaled directly, so each transition's label is decoded via
// [DecodeMachineLabel].
func (mt *MachineType) UnmarshalJSON(data []byte) error {
	var wire struct {
		Initial     ident.State             `json:"initial"`
		Transitions []machineTransitionWire `json:"transitions"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	mt.Initial = wire.Initial
	mt.Transitions = make([]Transition[MachineLabel], len(wire.Transitions))
	for i, t := range wire.Transitions {
		label, err := DecodeMachineLabel(t.Label)
		if err != nil {
			return err
		}
		mt.Transitions[i] = Transition[MachineLabel]{Source: t.Source, Target: t.Target, Label: label}
	}
	return nil
}

// InterfacingProtocols is an ordered list of component protocols composed
// together.
type InterfacingProtocols []SwarmProtocolType

// Subscription maps each role to the set of event types it observes
//. Equality/iteration never depends on map insertion order; use
// [ident.SortedRoles] / [ident.SortedEvents] wherever order is observable.
type Subscription map[ident.Role]ident.EventSet

// NewSubscription returns an empty subscription.
func NewSubscription() Subscription { return make(Subscription) }

// Clone returns a deep copy of s.
func (s Subscription) Clone() Subscription {
	out := make(Subscription, len(s))
	for r, events := range s {
		out[r] = events.Clone()
	}
	return out
}

// Add inserts event into role's set, creating the set if absent. Returns
// true if this grew the subscription (event was not already present) —
// callers use this to detect fixpoint stability.
func (s Subscription) Add(role ident.Role, event ident.EventType) bool {
	set, ok := s[role]
	if !ok {
		set = ident.NewEventSet()
		s[role] = set
	}
	if set.Has(event) {
		return false
	}
	set.Add(event)
	return true
}

// AddAll inserts every event in events into role's set, returning true if
// any insertion grew the subscription.
func (s Subscription) AddAll(role ident.Role, events ident.EventSet) bool {
	grew := false
	for e := range events {
		if s.Add(role, e) {
			grew = true
		}
	}
	return grew
}

// Of returns role's event set (empty, not nil, if role is unknown).
func (s Subscription) Of(role ident.Role) ident.EventSet {
	if set, ok := s[role]; ok {
		return set
	}
	return ident.NewEventSet()
}

// ContainsAll reports whether role subscribes to every event in events.
func (s Subscription) ContainsAll(role ident.Role, events ident.EventSet) bool {
	set := s.Of(role)
	for e := range events {
		if !set.Has(e) {
			return false
		}
	}
	return true
}

// Roles returns the subscription's roles in sorted order.
func (s Subscription) Roles() []ident.Role {
	roles := make([]ident.Role, 0, len(s))
	for r := range s {
		roles = append(roles, r)
	}
	return ident.SortedRoles(ident.NewRoleSet(roles...))
}

// Granularity selects an over-approximation strategy for subscription
// inference.
type Granularity string

const (
	Fine    Granularity = "Fine"
	Medium  Granularity = "Medium"
	Coarse  Granularity = "Coarse"
	TwoStep Granularity = "TwoStep"
)

// Check is the nullary result shape of  OK, or a list of rendered
// diagnostic strings.
type Check struct {
	Errors []string `json:"errors,omitempty"`
}

// OK reports whether the check found no errors.
func (c Check) OK() bool { return len(c.Errors) == 0 }

// CheckFromDiagnostics renders diags deterministically into a Check.
func CheckFromDiagnostics(diags []Diagnostic) Check {
	if len(diags) == 0 {
		return Check{}
	}
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Error()
	}
	return Check{Errors: out}
}

// Data is the value-carrying result shape of  OK{data}, or a list
// of rendered diagnostic strings.
type Data[T any] struct {
	Value  T        `json:"data,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// OK reports whether the result carries a value rather than errors.
func (d Data[T]) OK() bool { return len(d.Errors) == 0 }

// DataFromDiagnostics renders diags into a Data[T], or wraps value if diags
// is empty.
func DataFromDiagnostics[T any](value T, diags []Diagnostic) Data[T] {
	if len(diags) == 0 {
		return Data[T]{Value: value}
	}
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Error()
	}
	return Data[T]{Errors: out}
}

// ProjectionInfo is the external encoding of a role's projection together
// with its branch map and state-correspondence metadata.
type ProjectionInfo struct {
	Projection          MachineType                     `json:"projection"`
	Branches            map[ident.EventType][]ident.EventType `json:"branches"`
	SpecialEventTypes    ident.EventSet                  `json:"specialEventTypes"`
	ProjToMachineStates map[ident.State][]ident.State    `json:"projToMachineStates"`
}
