// Package api implements exported operations: the small, pure
// surface that wires the graph substrate (pkg/graph), ingestion
// (pkg/protoinfo), composition (pkg/compose), the well-formedness oracle
// (pkg/wellformed), subscription inference (pkg/subscription), the
// projection engine (pkg/projection, pkg/machine), the adaptation engine
// and equivalence checker (pkg/adapt), and branch-reachability (pkg/branch)
// into the eight operations of 
//
// Every function accepts a nilable *log.Logger (defaulting to
// log.Default(), internal/clog.OrDefault) and emits Debug-level span
// entries for its constituent passes — purely diagnostic, must not affect
// results. Callers that need caching or persistence (internal/cli,
// internal/httpapi) wrap these functions in an api.Runner (see runner.go).
package api

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/swarmcheck/internal/clog"
	"github.com/matzehuels/swarmcheck/pkg/compose"
	"github.com/matzehuels/swarmcheck/pkg/protoinfo"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// ingestAll ingests every protocol in protos independently,
// logging one Debug span per protocol.
func ingestAll(protos swarm.InterfacingProtocols, logger *log.Logger) []*protoinfo.ProtoInfo {
	logger = clog.OrDefault(logger)
	infos := make([]*protoinfo.ProtoInfo, len(protos))
	for i, proto := range protos {
		prog := clog.NewProgress(logger)
		info, diags := protoinfo.Ingest(proto)
		infos[i] = info
		prog.Done("ingest")
		logger.Debug("ingest", "index", i, "initial", proto.Initial, "transitions", len(proto.Transitions), "errors", len(diags))
	}
	return infos
}

// combine folds infos into a single ProtoInfo spanning every member
// protocol, without computing the explicit product graph.
func combine(infos []*protoinfo.ProtoInfo, logger *log.Logger) *protoinfo.ProtoInfo {
	logger = clog.OrDefault(logger)
	prog := clog.NewProgress(logger)
	combined, _ := compose.Combine(infos)
	prog.Done("combine")
	logger.Debug("combine", "protocols", len(infos), "errors", len(combined.Diagnostics))
	return combined
}

// explicitComposition computes the pair-state product of combined's member
// graphs, the single composed swarm graph used by
// check_composed_swarm, exact_well_formed_sub, and compose_protocols.
func explicitComposition(combined *protoinfo.ProtoInfo, logger *log.Logger) *protoinfo.ProtoInfo {
	logger = clog.OrDefault(logger)
	prog := clog.NewProgress(logger)
	explicit, _ := compose.ExplicitComposition(combined)
	prog.Done("explicit_composition")
	nodes := 0
	if len(explicit.Graphs) > 0 {
		nodes = explicit.Graphs[0].G.NodeCount()
	}
	logger.Debug("explicit_composition", "states", nodes, "errors", len(explicit.Diagnostics))
	return explicit
}

// ingestCombine is the shared prefix of every multi-protocol operation:
// ingest every protocol, then combine.
func ingestCombine(protos swarm.InterfacingProtocols, logger *log.Logger) *protoinfo.ProtoInfo {
	return combine(ingestAll(protos, logger), logger)
}
