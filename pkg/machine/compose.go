// Package machine implements the machine composer: composing projected machines via the same pair-state product
// construction as pkg/compose, and project_combine, which avoids
// materializing the (potentially exponential) explicit composition by
// projecting each member protocol separately and folding the projections.
package machine

import (
	"github.com/matzehuels/swarmcheck/pkg/graph"
	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// Compose folds m1 and m2 into their pair-state product: an
// Input edge whose event type is in interfacing advances both sides
// together; every other edge — Execute self-loops, and Input edges outside
// interfacing — advances its own side alone. Execute labels never
// interface; two machines never need to agree on when a role issues its own
// command. An interfacing event that is never matched between the two sides
// anywhere in the product is reported via onAsymmetric rather than aborting
// the fold. The
// state named in onAsymmetric is resolved against the finished product
// graph, since [graph.PairProduct]'s callback only sees a node id.
func Compose(m1, m2 *swarm.MachineGraph, interfacing ident.EventSet, onAsymmetric func(side graph.Side, at ident.State, label swarm.MachineLabel)) *swarm.MachineGraph {
	eventOf := func(l swarm.MachineLabel) (ident.EventType, bool) {
		if in, ok := l.(swarm.Input); ok {
			return in.EventType, true
		}
		return "", false
	}
	isInterfacing := func(e ident.EventType) bool { return interfacing.Has(e) }
	fuseNode := func(a, b ident.State) ident.State { return ident.State("{" + string(a) + "} || {" + string(b) + "}") }

	type asym struct {
		side  graph.Side
		at    graph.NodeID
		label swarm.MachineLabel
	}
	var asyms []asym
	raw := func(side graph.Side, at graph.NodeID, label swarm.MachineLabel) {
		asyms = append(asyms, asym{side, at, label})
	}

	prodG, prodInit := graph.PairProduct[ident.State, swarm.MachineLabel, ident.EventType](
		m1.G, m1.Initial,
		m2.G, m2.Initial,
		eventOf, isInterfacing, fuseNode, raw,
	)
	if onAsymmetric != nil {
		for _, a := range asyms {
			st, _ := prodG.Node(a.at)
			onAsymmetric(a.side, st, a.label)
		}
	}
	return swarm.FromMachineGraph(prodG, prodInit)
}
