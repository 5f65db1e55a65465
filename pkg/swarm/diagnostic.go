package swarm

import (
	"fmt"
	"strings"

	"github.com/matzehuels/swarmcheck/pkg/ident"
)

// DiagCode names an error kind from the diagnostic taxonomy. Diagnostics
// are recovered locally and accumulated, never thrown.
type DiagCode string

const (
	// Structural
	CodeInitialStateDisconnected    DiagCode = "InitialStateDisconnected"
	CodeStateUnreachable            DiagCode = "StateUnreachable"
	CodeLogTypeEmpty                DiagCode = "LogTypeEmpty"
	CodeMoreThanOneEventTypeInCommand DiagCode = "MoreThanOneEventTypeInCommand"

	// Confusion
	CodeEventEmittedMultipleTimes    DiagCode = "EventEmittedMultipleTimes"
	CodeCommandOnMultipleTransitions DiagCode = "CommandOnMultipleTransitions"

	// Interface
	CodeInvalidInterfaceRole            DiagCode = "InvalidInterfaceRole"
	CodeInterfaceEventNotInBothProtocols DiagCode = "InterfaceEventNotInBothProtocols"
	CodeSpuriousInterface                DiagCode = "SpuriousInterface"
	CodeEventTypeOnDifferentLabels       DiagCode = "EventTypeOnDifferentLabels"
	CodeCommandOnDifferentLabels         DiagCode = "CommandOnDifferentLabels"

	// Well-formedness
	CodeActiveRoleNotSubscribed      DiagCode = "ActiveRoleNotSubscribed"
	CodeLaterActiveRoleNotSubscribed DiagCode = "LaterActiveRoleNotSubscribed"
	CodeRoleNotSubscribedToBranch    DiagCode = "RoleNotSubscribedToBranch"
	CodeRoleNotSubscribedToJoin      DiagCode = "RoleNotSubscribedToJoin"
	CodeLoopingError                 DiagCode = "LoopingError"

	// Equivalence
	CodeNonDeterministic  DiagCode = "NonDeterministic"
	CodeMissingTransition DiagCode = "MissingTransition"

	// Composition (generalizing the Rust original's panic, // open question: compose() surfaces an asymmetric interfacing label as
	// a structured error instead of aborting the process).
	CodeAsymmetricInterfaceLabel DiagCode = "AsymmetricInterfaceLabel"
)

// Side names which operand of a binary comparison a diagnostic refers to
// (equivalence checking
type Side string

const (
	Left  Side = "Left"
	Right Side = "Right"
)

// Diagnostic is a single accumulated error. Message is the fully rendered,
// deterministic string so test assertions can match it exactly;
// the remaining fields are structured context a caller can use without
// re-parsing Message.
type Diagnostic struct {
	Code    DiagCode
	Message string
	State   ident.State
	Target  ident.State
	Role    ident.Role
	Event   ident.EventType
	Command ident.Command
	Side    Side
}

// Error implements the error interface so Diagnostic can be used directly
// with Go's error-handling idioms (errors.As, %w) where convenient.
func (d Diagnostic) Error() string { return d.Message }

// edgeDisplay renders "(source)--[label]-->(target)", mirroring the
// original's Edge(graph, edge_id) Display impl.
func edgeDisplay(source ident.State, label fmt.Stringer, target ident.State) string {
	return fmt.Sprintf("(%s)--[%s]-->(%s)", source, label, target)
}

// NewStructural builds a structural-class diagnostic.
func NewStructural(code DiagCode, state ident.State, detail string) Diagnostic {
	msg := fmt.Sprintf("%s: %s", code, state)
	if detail != "" {
		msg = fmt.Sprintf("%s: %s (%s)", code, state, detail)
	}
	return Diagnostic{Code: code, Message: msg, State: state}
}

// NewLabelError builds a confusion/interface-class diagnostic anchored on a
// transition, rendering the edge display supplemented
// feature.
func NewLabelError(code DiagCode, source ident.State, label fmt.Stringer, target ident.State, detail string) Diagnostic {
	msg := fmt.Sprintf("%s: %s", code, edgeDisplay(source, label, target))
	if detail != "" {
		msg += ": " + detail
	}
	return Diagnostic{Code: code, Message: msg, State: source, Target: target}
}

// NewWellFormedness builds a well-formedness-class diagnostic.
func NewWellFormedness(code DiagCode, source, target ident.State, label fmt.Stringer, role ident.Role, event ident.EventType) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: fmt.Sprintf("%s: role %s not subscribed to %s at %s", code, role, event, edgeDisplay(source, label, target)),
		State:   source,
		Target:  target,
		Role:    role,
		Event:   event,
	}
}

// NewLoopingError builds a LoopingError diagnostic for an infinitely
// looping event and the set of involved roles.
func NewLoopingError(event ident.EventType, roles ident.RoleSet) Diagnostic {
	names := make([]string, 0, len(roles))
	for _, r := range ident.SortedRoles(roles) {
		names = append(names, string(r))
	}
	return Diagnostic{
		Code:  CodeLoopingError,
		Event: event,
		Message: fmt.Sprintf("%s: event %s loops without a shared subscription among roles [%s]",
			CodeLoopingError, event, strings.Join(names, ", ")),
	}
}

// NewEquivalenceError builds a NonDeterministic or MissingTransition
// diagnostic.
func NewEquivalenceError(code DiagCode, side Side, state ident.State, key fmt.Stringer) Diagnostic {
	return Diagnostic{
		Code:  code,
		Side:  side,
		State: state,
		Message: fmt.Sprintf("%s(%s, %s, %s)", code, side, state, key),
	}
}

// NewAsymmetricInterfaceLabel builds the structured-error replacement for
// the original's compose() panic: an interfacing
// label appearing on only one side of a composition step.
func NewAsymmetricInterfaceLabel(side Side, state ident.State, key fmt.Stringer) Diagnostic {
	return Diagnostic{
		Code:  CodeAsymmetricInterfaceLabel,
		Side:  side,
		State: state,
		Message: fmt.Sprintf("%s: interfacing label %s present only on the %s side at state %s",
			CodeAsymmetricInterfaceLabel, key, side, state),
	}
}
