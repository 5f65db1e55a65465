// Package graph provides the directed multigraph substrate shared by the
// rest of the analyzer: swarm graphs (pkg/swarm), machine graphs
// (pkg/projection, pkg/machine) and the event-derivation graphs consumed by
// pkg/protoinfo all sit on top of [Graph].
//
// A [Graph] owns its nodes and edges: nodes and edges
// are referenced by small integer ids stable for the graph's lifetime, never
// by pointer, so traversal helpers can hand back ids freely without aliasing
// concerns.
package graph
