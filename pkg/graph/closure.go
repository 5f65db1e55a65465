package graph

// TransitiveClosure computes, for every pair of nodes (i, j), whether j is
// reachable from i via one or more edges, using Floyd–Warshall is acceptable).
//
// The returned matrix is indexed by NodeID on both axes and is reflexive
// only where a node has a path back to itself (i.e. lies on a cycle) — it
// is not seeded with the identity relation.
func TransitiveClosure[N, E any](g *Graph[N, E]) [][]bool {
	n := g.NodeCount()
	reach := make([][]bool, n)
	for i := range reach {
		reach[i] = make([]bool, n)
	}
	for _, e := range g.Edges() {
		reach[e.From][e.To] = true
	}
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if !reach[i][k] {
				continue
			}
			for j := 0; j < n; j++ {
				if reach[k][j] {
					reach[i][j] = true
				}
			}
		}
	}
	return reach
}
