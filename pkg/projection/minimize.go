package projection

import (
	"fmt"
	"sort"

	"github.com/matzehuels/swarmcheck/pkg/graph"
	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// Minimize collapses mg by Hopcroft-style partition refinement:
// the initial partition is {sinks} ∪ {non-sinks}; repeatedly, for every
// block B and every label in B's incoming pre-image, every block is split
// into the members with an edge labelled that way into B and the members
// without, dropping empty parts. Refinement stops once a full sweep over
// every block leaves the partition unchanged.
func Minimize(mg *swarm.MachineGraph) *swarm.MachineGraph {
	nodes := mg.G.Nodes()

	var sinks, nonSinks nodeSet = nodeSet{}, nodeSet{}
	for _, n := range nodes {
		if len(mg.G.OutEdges(n)) == 0 {
			sinks[n] = true
		} else {
			nonSinks[n] = true
		}
	}

	var partition []nodeSet
	if len(sinks) > 0 {
		partition = append(partition, sinks)
	}
	if len(nonSinks) > 0 {
		partition = append(partition, nonSinks)
	}

	changed := true
	for changed {
		changed = false
		for _, block := range partition {
			labels := incomingLabels(mg, nodes, block)
			for _, lk := range labels {
				next, split := refine(mg, partition, block, lk)
				if split {
					changed = true
				}
				partition = next
			}
			if changed {
				break
			}
		}
	}

	return buildFromPartition(mg, partition)
}

func incomingLabels(mg *swarm.MachineGraph, nodes []graph.NodeID, block nodeSet) []swarm.LabelKey {
	seen := map[swarm.LabelKey]bool{}
	for _, n := range nodes {
		for _, eid := range mg.G.OutEdges(n) {
			e, _ := mg.G.Edge(eid)
			if block[e.To] {
				seen[e.Weight.Key()] = true
			}
		}
	}
	out := make([]swarm.LabelKey, 0, len(seen))
	for lk := range seen {
		out = append(out, lk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// refine splits every block of partition by whether its members have an
// lk-labelled edge into target, returning the new partition and whether any
// block actually split.
func refine(mg *swarm.MachineGraph, partition []nodeSet, target nodeSet, lk swarm.LabelKey) ([]nodeSet, bool) {
	var next []nodeSet
	split := false
	for _, x := range partition {
		in, out := nodeSet{}, nodeSet{}
		for n := range x {
			has := false
			for _, eid := range mg.G.OutEdges(n) {
				e, _ := mg.G.Edge(eid)
				if e.Weight.Key() == lk && target[e.To] {
					has = true
					break
				}
			}
			if has {
				in[n] = true
			} else {
				out[n] = true
			}
		}
		if len(in) > 0 {
			next = append(next, in)
		}
		if len(out) > 0 {
			next = append(next, out)
		}
		if len(in) > 0 && len(out) > 0 {
			split = true
		}
	}
	return next, split
}

func buildFromPartition(mg *swarm.MachineGraph, partition []nodeSet) *swarm.MachineGraph {
	blockOf := make(map[graph.NodeID]int, mg.G.NodeCount())
	for i, block := range partition {
		for n := range block {
			blockOf[n] = i
		}
	}
	blockName := make([]ident.State, len(partition))
	for i, block := range partition {
		blockName[i] = renderSetName(block, mg)
	}

	out := swarm.NewMachineGraph()
	out.Initial = out.NodeFor(blockName[blockOf[mg.Initial]])

	added := map[string]bool{}
	for i, block := range partition {
		for n := range block {
			for _, eid := range mg.G.OutEdges(n) {
				e, _ := mg.G.Edge(eid)
				j := blockOf[e.To]
				key := fmt.Sprintf("%d|%s|%d", i, e.Weight.Key(), j)
				if added[key] {
					continue
				}
				added[key] = true
				out.AddTransition(blockName[i], blockName[j], e.Weight)
			}
		}
	}
	return out
}
