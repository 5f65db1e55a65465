package projection

import (
	"sort"

	"github.com/matzehuels/swarmcheck/pkg/graph"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// nodeSet is a set of original-graph node ids, used as a subset-construction
// DFA state.
type nodeSet map[graph.NodeID]bool

// SubsetConstruct determinizes mg via the standard NFA→DFA worklist
// algorithm: each DFA state is a set of mg nodes, named
// "{ n1, n2, … }" sorted; two original edges out of the same state sharing a
// [swarm.LabelKey] collapse into one DFA transition to the union of their
// targets.
func SubsetConstruct(mg *swarm.MachineGraph) *swarm.MachineGraph {
	setOf := map[string]nodeSet{}

	keyFor := func(s nodeSet) string {
		return string(renderSetName(s, mg))
	}

	start := nodeSet{mg.Initial: true}
	startKey := keyFor(start)
	setOf[startKey] = start

	out := swarm.NewMachineGraph()
	out.Initial = out.NodeFor(renderSetName(start, mg))

	seen := map[string]bool{startKey: true}
	worklist := []string{startKey}

	for len(worklist) > 0 {
		key := worklist[0]
		worklist = worklist[1:]
		set := setOf[key]
		outName := renderSetName(set, mg)

		byLabel := map[swarm.LabelKey]nodeSet{}
		repr := map[swarm.LabelKey]swarm.MachineLabel{}
		for n := range set {
			for _, eid := range mg.G.OutEdges(n) {
				e, _ := mg.G.Edge(eid)
				lk := e.Weight.Key()
				if byLabel[lk] == nil {
					byLabel[lk] = nodeSet{}
				}
				byLabel[lk][e.To] = true
				repr[lk] = e.Weight
			}
		}

		for _, lk := range sortedLabelKeys(byLabel) {
			target := byLabel[lk]
			tKey := keyFor(target)
			if !seen[tKey] {
				seen[tKey] = true
				setOf[tKey] = target
				worklist = append(worklist, tKey)
			}
			out.AddTransition(outName, renderSetName(target, mg), repr[lk])
		}
	}

	return out
}

func sortedLabelKeys(m map[swarm.LabelKey]nodeSet) []swarm.LabelKey {
	out := make([]swarm.LabelKey, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
