package ident

import "sort"

// SortedEvents returns the members of s in ascending lexical order.
func SortedEvents(s EventSet) []EventType {
	out := make([]EventType, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SortedRoles returns the members of s in ascending lexical order.
func SortedRoles(s RoleSet) []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SortedStates returns a sorted copy of states.
func SortedStates(states []State) []State {
	out := make([]State, len(states))
	copy(out, states)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
