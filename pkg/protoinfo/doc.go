// Package protoinfo implements protocol ingestion, confusion-freeness
// checking, and the ProtoInfo aggregator. ProtoInfo is the central dossier threaded through every later
// pass: subscription inference, the well-formedness oracle, and
// projection all read it, never mutate it, once
// [Ingest] (and, for compositions, pkg/compose's Combine/ExplicitComposition)
// have produced it.
//
// Ingestion and ProtoInfo share this package rather than splitting across
// two — ProtoInfo must own a swarm graph, so whichever
// package builds a ProtoInfo from a raw protocol must already depend on
// pkg/swarm; putting Ingest here avoids a dependency cycle between the two
// components.
package protoinfo
