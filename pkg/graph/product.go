package graph

import (
	"fmt"
	"sort"
)

// Side names which operand of a binary graph operation a node or edge came
// from. Shared by [PairProduct]'s asymmetry callback and reused by callers
// (pkg/compose, pkg/machine) when rendering diagnostics.
type Side string

const (
	Left  Side = "Left"
	Right Side = "Right"
)

// PairProduct is the generic pair-state product construction behind both
// the explicit swarm-protocol composition and the
// machine/graph composer: starting from (start1, start2), visit
// pairs of nodes by worklist. At each pair, every edge is classified
// interfacing or not via eventOf+isInterfacing:
//
//   - a non-interfacing edge from side 1 advances side 1 alone (side 2
//     stays put), and vice versa for side 2;
//   - an interfacing edge present with the same key on both sides advances
//     both sides together, once per (side1, side2) edge pair sharing that
//     key;
//   - an interfacing edge present on only one side of the CURRENT pair is
//     not yet enabled: the other side has simply not caught up to it via
//     its own local steps, which is ordinary asynchronous interleaving, not
//     a defect. PairProduct leaves the edge untraversed at this pair; it
//     becomes available once the lagging side reaches a pair offering the
//     matching key.
//
// onAsymmetric is reserved for a genuine precondition violation: an interfacing key that never finds a match anywhere the
// worklist reaches, meaning the two operands disagree about the interface.
// PairProduct detects this itself: it records every interfacing key it
// matches during the traversal and, once the worklist is exhausted, calls
// onAsymmetric once for each interfacing edge key never matched, at the
// first pair where that side offered it (side 1's keys first, then side 2's).
//
// fuseNode computes the composed node's weight from its two constituent
// weights, called once per newly discovered pair. Edge and pair discovery
// order is the insertion order of g1/g2's outgoing edges, so the resulting
// graph's node and edge ids are a deterministic function of the inputs
//.
func PairProduct[N any, E any, K comparable](
	g1 *Graph[N, E], start1 NodeID,
	g2 *Graph[N, E], start2 NodeID,
	eventOf func(E) (K, bool),
	isInterfacing func(K) bool,
	fuseNode func(a, b N) N,
	onAsymmetric func(side Side, at NodeID, label E),
) (*Graph[N, E], NodeID) {
	out := New[N, E]()

	type pair struct{ a, b NodeID }
	visited := make(map[pair]NodeID)

	newNode := func(a, b NodeID) (NodeID, bool) {
		p := pair{a, b}
		if id, ok := visited[p]; ok {
			return id, false
		}
		wa, _ := g1.Node(a)
		wb, _ := g2.Node(b)
		id := out.AddNode(fuseNode(wa, wb))
		visited[p] = id
		return id, true
	}

	start, _ := newNode(start1, start2)
	queue := []pair{{start1, start2}}
	queued := map[pair]bool{{start1, start2}: true}

	enqueue := func(a, b NodeID) {
		p := pair{a, b}
		if !queued[p] {
			queued[p] = true
			queue = append(queue, p)
		}
	}

	type occurrence struct {
		at    NodeID
		label E
	}
	firstLeft := map[K]occurrence{}
	firstRight := map[K]occurrence{}
	matched := map[K]bool{}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curID := visited[cur]

		edges1 := g1.OutEdges(cur.a)
		edges2 := g2.OutEdges(cur.b)

		for _, eid1 := range edges1 {
			e1, _ := g1.Edge(eid1)
			k1, ok1 := eventOf(e1.Weight)
			if !ok1 || !isInterfacing(k1) {
				to, _ := newNode(e1.To, cur.b)
				out.AddEdge(curID, to, e1.Weight)
				enqueue(e1.To, cur.b)
				continue
			}
			if _, seen := firstLeft[k1]; !seen {
				firstLeft[k1] = occurrence{curID, e1.Weight}
			}
			for _, eid2 := range edges2 {
				e2, _ := g2.Edge(eid2)
				k2, ok2 := eventOf(e2.Weight)
				if ok2 && isInterfacing(k2) && k2 == k1 {
					matched[k1] = true
					to, _ := newNode(e1.To, e2.To)
					out.AddEdge(curID, to, e1.Weight)
					enqueue(e1.To, e2.To)
				}
			}
		}

		for _, eid2 := range edges2 {
			e2, _ := g2.Edge(eid2)
			k2, ok2 := eventOf(e2.Weight)
			if !ok2 || !isInterfacing(k2) {
				to, _ := newNode(cur.a, e2.To)
				out.AddEdge(curID, to, e2.Weight)
				enqueue(cur.a, e2.To)
				continue
			}
			if _, seen := firstRight[k2]; !seen {
				firstRight[k2] = occurrence{curID, e2.Weight}
			}
		}
	}

	if onAsymmetric != nil {
		sortedKeys := func(m map[K]occurrence) []K {
			keys := make([]K, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			sort.Slice(keys, func(i, j int) bool {
				return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
			})
			return keys
		}
		for _, k := range sortedKeys(firstLeft) {
			if !matched[k] {
				onAsymmetric(Left, firstLeft[k].at, firstLeft[k].label)
			}
		}
		for _, k := range sortedKeys(firstRight) {
			if !matched[k] {
				onAsymmetric(Right, firstRight[k].at, firstRight[k].label)
			}
		}
	}

	return out, start
}
