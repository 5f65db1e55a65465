package graph

import "testing"

// buildLine creates a two-edge path 0->1->2 whose edges carry string
// "events" a then b.
func buildLine(a, b string) *Graph[string, string] {
	g := New[string, string]()
	n0 := g.AddNode("0")
	n1 := g.AddNode("1")
	n2 := g.AddNode("2")
	g.AddEdge(n0, n1, a)
	g.AddEdge(n1, n2, b)
	return g
}

func eventOf(e string) (string, bool) { return e, e != "" }

func TestPairProductSharedEventAdvancesJointly(t *testing.T) {
	g1 := buildLine("shared", "onlyA")
	g2 := buildLine("shared", "onlyB")

	interfacing := map[string]bool{"shared": true}
	out, start := PairProduct[string, string, string](
		g1, 0, g2, 0,
		eventOf,
		func(k string) bool { return interfacing[k] },
		func(a, b string) string { return "{" + a + "}||{" + b + "}" },
		nil,
	)

	if out.NodeCount() == 0 {
		t.Fatal("PairProduct produced an empty graph")
	}
	// from start, the only edge should be the shared one (both sides
	// advance together); onlyA/onlyB only fire afterwards, independently.
	outs := out.OutEdges(start)
	if len(outs) != 1 {
		t.Fatalf("start node has %d outgoing edges, want 1 (only the shared event fires before either side's independent edge)", len(outs))
	}
	e, _ := out.Edge(outs[0])
	if e.Weight != "shared" {
		t.Errorf("edge weight = %q, want %q", e.Weight, "shared")
	}
}

func TestPairProductAsymmetricReportsWithoutAborting(t *testing.T) {
	g1 := New[string, string]()
	a0 := g1.AddNode("0")
	a1 := g1.AddNode("1")
	g1.AddEdge(a0, a1, "onlyLeft")

	g2 := New[string, string]()
	b0 := g2.AddNode("0")

	interfacing := map[string]bool{"onlyLeft": true}
	var asyms []Side
	out, start := PairProduct[string, string, string](
		g1, a0, g2, b0,
		eventOf,
		func(k string) bool { return interfacing[k] },
		func(a, b string) string { return a + "||" + b },
		func(side Side, at NodeID, label string) { asyms = append(asyms, side) },
	)

	if len(asyms) != 1 || asyms[0] != Left {
		t.Fatalf("asymmetry callbacks = %v, want [Left]", asyms)
	}
	if len(out.OutEdges(start)) != 0 {
		t.Errorf("an asymmetric interfacing edge should not produce a transition")
	}
}
