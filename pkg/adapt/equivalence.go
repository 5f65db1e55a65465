package adapt

import (
	"sort"

	"github.com/matzehuels/swarmcheck/pkg/graph"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// pairKey identifies an already-visited (left, right) state pair during
// [Equivalent]'s parallel walk.
type pairKey struct{ l, r graph.NodeID }

// Equivalent compares l (rooted at lInit) and r (rooted at rInit) by a
// parallel DFS from (lInit, rInit): at each pair, outgoing
// edges on both sides are classified by their [swarm.LabelKey] — Command(c)
// for Execute edges, Event(e) for Input edges. A key repeated on either
// side is reported as [swarm.CodeNonDeterministic]; keys are then compared
// in sorted order on both sides and an asymmetry is reported as
// [swarm.CodeMissingTransition]. descent into a pair only happens once
// (already-paired targets are not revisited), and a pair with any
// discrepancy does not descend further from itself —  "abort the
// deeper walk from that pair to avoid cascaded noise".
func Equivalent(l *swarm.MachineGraph, lInit graph.NodeID, r *swarm.MachineGraph, rInit graph.NodeID) []swarm.Diagnostic {
	var diags []swarm.Diagnostic
	visited := make(map[pairKey]bool)

	var walk func(a, b graph.NodeID)
	walk = func(a, b graph.NodeID) {
		key := pairKey{a, b}
		if visited[key] {
			return
		}
		visited[key] = true

		as, bs := l.State(a), r.State(b)
		aByKey := edgesByKey(l, a)
		bByKey := edgesByKey(r, b)

		discrepancy := false
		for _, lk := range sortedKeys(aByKey) {
			if len(aByKey[lk]) > 1 {
				diags = append(diags, swarm.NewEquivalenceError(swarm.CodeNonDeterministic, swarm.Left, as, lk))
				discrepancy = true
			}
		}
		for _, lk := range sortedKeys(bByKey) {
			if len(bByKey[lk]) > 1 {
				diags = append(diags, swarm.NewEquivalenceError(swarm.CodeNonDeterministic, swarm.Right, bs, lk))
				discrepancy = true
			}
		}

		allKeys := sortedKeys(union(aByKey, bByKey))
		var descend [][2]graph.NodeID
		for _, lk := range allKeys {
			aEdges, aHas := aByKey[lk]
			bEdges, bHas := bByKey[lk]
			switch {
			case aHas && !bHas:
				diags = append(diags, swarm.NewEquivalenceError(swarm.CodeMissingTransition, swarm.Right, bs, lk))
				discrepancy = true
			case bHas && !aHas:
				diags = append(diags, swarm.NewEquivalenceError(swarm.CodeMissingTransition, swarm.Left, as, lk))
				discrepancy = true
			default:
				descend = append(descend, [2]graph.NodeID{aEdges[0].To, bEdges[0].To})
			}
		}

		if discrepancy {
			return
		}
		for _, p := range descend {
			walk(p[0], p[1])
		}
	}

	walk(lInit, rInit)
	return diags
}

func edgesByKey(mg *swarm.MachineGraph, n graph.NodeID) map[swarm.LabelKey][]graph.Edge[swarm.MachineLabel] {
	out := make(map[swarm.LabelKey][]graph.Edge[swarm.MachineLabel])
	for _, eid := range mg.G.OutEdges(n) {
		e, _ := mg.G.Edge(eid)
		lk := e.Weight.Key()
		out[lk] = append(out[lk], e)
	}
	return out
}

func sortedKeys(m map[swarm.LabelKey][]graph.Edge[swarm.MachineLabel]) []swarm.LabelKey {
	out := make([]swarm.LabelKey, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func union(a, b map[swarm.LabelKey][]graph.Edge[swarm.MachineLabel]) map[swarm.LabelKey][]graph.Edge[swarm.MachineLabel] {
	out := make(map[swarm.LabelKey][]graph.Edge[swarm.MachineLabel], len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}
