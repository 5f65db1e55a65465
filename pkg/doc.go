// Package pkg provides the core libraries for swarmcheck, a static
// analyzer and code generator for choreographic swarm protocols.
//
// # Overview
//
// swarmcheck decides whether a set of interfacing swarm protocols compose
// into a well-formed distributed workflow, and synthesizes the per-role
// client state machine when it does. The pkg directory is organized into
// four layers, each built on the one below it:
//
//  1. Substrate ([graph], [ident]) — the generic graph and interned
//     identifier types every other package builds on.
//  2. Protocol algebra ([swarm], [protoinfo], [compose]) — the swarm graph,
//     its confusion-freeness invariants, and the n-ary interfacing
//     composition operation.
//  3. Analysis ([wellformed], [subscription], [projection], [machine],
//     [branch]) — the well-formedness oracle, subscription inference, the
//     projection engine, and branch-reachability.
//  4. Synthesis and diagnostics ([adapt], [api]) — machine adaptation,
//     equivalence checking, and the exported operations that tie the rest
//     together.
//
// # Architecture
//
// The typical data flow through swarmcheck:
//
//	InterfacingProtocols
//	         ↓
//	    [protoinfo] (ingest, confusion-free check)
//	         ↓
//	    [compose] (interface check, combine, explicit composition)
//	         ↓
//	    [wellformed] / [subscription] / [projection]
//	         ↓
//	    [machine] / [adapt] (compose, adapt, check equivalence)
//	         ↓
//	    MachineType / Check / Data[T]
//
// # Quick Start
//
// Infer a well-formed subscription and project a role's local machine:
//
//	import (
//	    "github.com/matzehuels/swarmcheck/pkg/api"
//	    "github.com/matzehuels/swarmcheck/pkg/swarm"
//	)
//
//	sub := api.ExactWellFormedSub(protocols, swarm.NewSubscription(), nil)
//	if !sub.OK() {
//	    // sub.Errors holds rendered diagnostics
//	}
//	machine := api.ProjectCombine(protocols, sub.Value, "T", true, nil)
//
// # Main Packages
//
// ## Substrate
//
// [graph] - A directed multigraph parameterized over node/edge weight
// types, with DFS/post-order traversal, a reversed-adjacency adaptor, the
// generic pair-state product construction, and Floyd–Warshall transitive
// closure.
//
// [ident] - Interned Role/EventType/Command/State identifiers and their
// sorted-iteration set types.
//
// ## Protocol Algebra
//
// [swarm] - The SwarmLabel/MachineLabel sum types, the Transition record,
// the swarm and machine graph carriers, the diagnostic taxonomy, the
// external SwarmProtocolType/MachineType/Subscription/Check/Data[T]
// encodings, and the adaptation-node graph.
//
// [protoinfo] - Ingestion and confusion-freeness checking; the ProtoInfo
// dossier and its derived sets (branching events, predecessor/successor
// maps, infinitely-looping events).
//
// [compose] - Cross-protocol interface checking, the combine_proto_infos
// left-fold, and the explicit composition pair-state product.
//
// ## Analysis
//
// [wellformed] - The well-formedness oracle: determinacy and causal-
// consistency violations over a composed graph and a candidate
// subscription.
//
// [subscription] - The five subscription-inference strategies (exact,
// fine, medium, coarse, two-step).
//
// [projection] - Role-indexed projection, NFA→DFA subset construction, and
// Hopcroft-style partition refinement minimization.
//
// [machine] - The pair-state machine composer and project_combine, the
// composition-free projection strategy.
//
// [branch] - Branch-reachability: which event types may follow each input
// event in a role's local view.
//
// ## Synthesis and Diagnostics
//
// [adapt] - Fusing a user-supplied machine into a freshly computed
// projection with state-correspondence metadata, and the parallel-DFS
// equivalence checker.
//
// [api] - The exported operations of each accepting a nilable
// *log.Logger for diagnostic-only span logging, plus [api.Runner] for
// cached, run-tagged execution.
//
// ## Ambient
//
// [cache] - The result-cache abstraction (file, null, and scoped
// implementations) [api.Runner] caches behind; see
// [github.com/matzehuels/swarmcheck/pkg/runcache] for the Redis backend.
//
// [render] - Graphviz DOT rendering of swarm graphs and projected machines,
// plus SVG→PDF/PNG conversion.
//
// [observability] - Optional hooks for metrics/tracing backends, kept out
// of the core's import graph.
//
// [buildinfo] - ldflags-injected version metadata.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/wellformed/...         # Specific package
//	go test ./pkg/api/                   # Spec §8 scenario tests (scenario_test.go)
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/swarmcheck/pkg/graph
// [ident]: https://pkg.go.dev/github.com/matzehuels/swarmcheck/pkg/ident
// [swarm]: https://pkg.go.dev/github.com/matzehuels/swarmcheck/pkg/swarm
// [protoinfo]: https://pkg.go.dev/github.com/matzehuels/swarmcheck/pkg/protoinfo
// [compose]: https://pkg.go.dev/github.com/matzehuels/swarmcheck/pkg/compose
// [wellformed]: https://pkg.go.dev/github.com/matzehuels/swarmcheck/pkg/wellformed
// [subscription]: https://pkg.go.dev/github.com/matzehuels/swarmcheck/pkg/subscription
// [projection]: https://pkg.go.dev/github.com/matzehuels/swarmcheck/pkg/projection
// [machine]: https://pkg.go.dev/github.com/matzehuels/swarmcheck/pkg/machine
// [branch]: https://pkg.go.dev/github.com/matzehuels/swarmcheck/pkg/branch
// [adapt]: https://pkg.go.dev/github.com/matzehuels/swarmcheck/pkg/adapt
// [api]: https://pkg.go.dev/github.com/matzehuels/swarmcheck/pkg/api
// [cache]: https://pkg.go.dev/github.com/matzehuels/swarmcheck/pkg/cache
// [render]: https://pkg.go.dev/github.com/matzehuels/swarmcheck/pkg/render
// [observability]: https://pkg.go.dev/github.com/matzehuels/swarmcheck/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/swarmcheck/pkg/buildinfo
package pkg
