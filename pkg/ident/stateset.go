package ident

// StateSet is an unordered collection of states, used by
// [github.com/matzehuels/swarmcheck/pkg/swarm.AdaptationNode] to carry the
// set of original user-machine states a composed adaptation node refines
//. A nil StateSet is distinct from an empty one: nil means "no
// correspondence recorded yet" (the node descends only from projection
// slots step 1), while an empty, non-nil set means the
// correspondence was computed and found empty.
type StateSet map[State]struct{}

// NewStateSet builds a StateSet from the given states.
func NewStateSet(states ...State) StateSet {
	s := make(StateSet, len(states))
	for _, st := range states {
		s[st] = struct{}{}
	}
	return s
}

// Add inserts st into the set, returning the set for chaining.
func (s StateSet) Add(st State) StateSet {
	s[st] = struct{}{}
	return s
}

// Has reports whether st is a member of the set.
func (s StateSet) Has(st State) bool {
	_, ok := s[st]
	return ok
}

// Clone returns a shallow copy of s, or nil if s is nil.
func (s StateSet) Clone() StateSet {
	if s == nil {
		return nil
	}
	out := make(StateSet, len(s))
	for st := range s {
		out[st] = struct{}{}
	}
	return out
}

// Union returns a new set containing the members of s and other. A nil
// operand is treated as empty; the result is nil only if both operands are
// nil.
func (s StateSet) Union(other StateSet) StateSet {
	if s == nil && other == nil {
		return nil
	}
	out := make(StateSet, len(s)+len(other))
	for st := range s {
		out[st] = struct{}{}
	}
	for st := range other {
		out[st] = struct{}{}
	}
	return out
}

// Intersect returns the states present in both s and other. A nil operand
// is treated as "unconstrained": intersecting with nil returns a clone of
// the other (non-nil) operand, matching the adaptation fuser's rule that an
// absent correspondence doesn't narrow a present one. The result is nil only if both
// operands are nil.
func (s StateSet) Intersect(other StateSet) StateSet {
	switch {
	case s == nil && other == nil:
		return nil
	case s == nil:
		return other.Clone()
	case other == nil:
		return s.Clone()
	}
	out := make(StateSet, len(s))
	for st := range s {
		if other.Has(st) {
			out[st] = struct{}{}
		}
	}
	return out
}

// Sorted returns the members of s in ascending lexical order.
func (s StateSet) Sorted() []State {
	out := make([]State, 0, len(s))
	for st := range s {
		out = append(out, st)
	}
	return SortedStates(out)
}
