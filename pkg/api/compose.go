package api

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/swarmcheck/internal/clog"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// ComposeProtocols is compose_protocols: it returns the explicit
// composition graph itself, not merely a Check — the pair-state product
// of protos, serialized back to a SwarmProtocolType.
func ComposeProtocols(protos swarm.InterfacingProtocols, logger *log.Logger) swarm.Data[swarm.SwarmProtocolType] {
	logger = clog.OrDefault(logger)
	combined := ingestCombine(protos, logger)
	explicit := explicitComposition(combined, logger)

	diags := append([]swarm.Diagnostic{}, explicit.Diagnostics...)
	if len(explicit.Graphs) == 0 {
		return swarm.DataFromDiagnostics(swarm.SwarmProtocolType{}, diags)
	}
	if len(diags) > 0 {
		return swarm.DataFromDiagnostics(swarm.SwarmProtocolType{}, diags)
	}

	pt := explicit.Graphs[0].ToSwarmProtocolType()
	logger.Debug("compose_protocols", "protocols", len(protos), "transitions", len(pt.Transitions))
	return swarm.Data[swarm.SwarmProtocolType]{Value: pt}
}
