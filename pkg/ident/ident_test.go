package ident

import "testing"

func TestEventSetUnionAndEqual(t *testing.T) {
	a := NewEventSet("partID", "pos")
	b := NewEventSet("pos", "time")

	u := a.Union(b)
	want := NewEventSet("partID", "pos", "time")
	if !u.Equal(want) {
		t.Errorf("Union() = %v, want %v", u, want)
	}

	if a.Equal(b) {
		t.Errorf("Equal() = true for distinct sets %v, %v", a, b)
	}
	if !a.Equal(a.Clone()) {
		t.Errorf("Clone() produced a set not Equal to the original")
	}
}

func TestRoleSetIntersect(t *testing.T) {
	a := NewRoleSet("T", "FL", "D")
	b := NewRoleSet("FL", "F")

	got := a.Intersect(b)
	want := NewRoleSet("FL")
	if len(got) != len(want) || !got.Has("FL") {
		t.Errorf("Intersect() = %v, want %v", got, want)
	}
}

func TestSortedEvents(t *testing.T) {
	s := NewEventSet("pos", "partID", "time")
	got := SortedEvents(s)
	want := []EventType{"partID", "pos", "time"}
	if len(got) != len(want) {
		t.Fatalf("SortedEvents() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SortedEvents()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestInternerCanonicalizes(t *testing.T) {
	in := NewInterner[EventType]()
	a := in.Intern(EventType("partID"))
	b := in.Intern(EventType("partID"))
	if a != b {
		t.Errorf("Intern() returned distinct values for the same input: %v, %v", a, b)
	}
	if in.Len() != 1 {
		t.Errorf("Len() = %d, want 1", in.Len())
	}
	in.Intern(EventType("pos"))
	if in.Len() != 2 {
		t.Errorf("Len() = %d, want 2", in.Len())
	}
}
