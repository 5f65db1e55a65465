package api

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/swarmcheck/internal/clog"
	"github.com/matzehuels/swarmcheck/pkg/adapt"
	"github.com/matzehuels/swarmcheck/pkg/branch"
	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/machine"
	"github.com/matzehuels/swarmcheck/pkg/projection"
	"github.com/matzehuels/swarmcheck/pkg/protoinfo"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// RevisedProjection is revised_projection: projects a single protocol
// onto role under subs, without any composition step.
func RevisedProjection(proto swarm.SwarmProtocolType, subs swarm.Subscription, role ident.Role, minimize bool, logger *log.Logger) swarm.Data[swarm.MachineType] {
	logger = clog.OrDefault(logger)
	info, diags := protoinfo.Ingest(proto)
	if len(diags) > 0 {
		return swarm.DataFromDiagnostics(swarm.MachineType{}, diags)
	}

	prog := clog.NewProgress(logger)
	mg := projection.Project(info.Graphs[0], subs, role, minimize)
	prog.Done("project")
	logger.Debug("revised_projection", "role", role, "states", mg.G.NodeCount())
	return swarm.Data[swarm.MachineType]{Value: mg.ToMachineType()}
}

// ProjectCombine is project_combine: projects every protocol in
// protos onto role independently, then folds the results via
// pkg/machine.Compose, synchronizing on each step's shared-role alphabet
//.
func ProjectCombine(protos swarm.InterfacingProtocols, subs swarm.Subscription, role ident.Role, minimize bool, logger *log.Logger) swarm.Data[swarm.MachineType] {
	logger = clog.OrDefault(logger)
	combined := ingestCombine(protos, logger)

	mg, diags := projectCombineGraph(combined, subs, role, minimize, logger)
	allDiags := append(append([]swarm.Diagnostic{}, combined.Diagnostics...), diags...)
	if len(allDiags) > 0 {
		return swarm.DataFromDiagnostics(swarm.MachineType{}, allDiags)
	}
	return swarm.Data[swarm.MachineType]{Value: mg.ToMachineType()}
}

// projectCombineGraph is the shared core of ProjectCombine and
// CheckComposedProjection: it returns the synthesized machine graph itself
// (not yet rendered to MachineType), for callers that need to run it
// through a further pass (equivalence checking, adaptation).
func projectCombineGraph(combined *protoinfo.ProtoInfo, subs swarm.Subscription, role ident.Role, minimize bool, logger *log.Logger) (*swarm.MachineGraph, []swarm.Diagnostic) {
	logger = clog.OrDefault(logger)
	prog := clog.NewProgress(logger)
	mg, diags := machine.ProjectCombine(combined, subs, role, minimize)
	prog.Done("project_combine")
	logger.Debug("project_combine", "role", role, "states", mg.G.NodeCount(), "errors", len(diags))
	return mg, diags
}

// ProjectionInformation is projection_information: synthesizes
// role's projection over protos (optionally adapted against a
// caller-supplied userMachine and enriches it with the
// branch-reachability map and the state-correspondence
// metadata carried by the adaptation graph.
//
// When userMachine is nil, this degenerates to project_combine plus
// branch-reachability, with an empty ProjToMachineStates.
func ProjectionInformation(role ident.Role, protos swarm.InterfacingProtocols, k int, subs swarm.Subscription, userMachine *swarm.MachineType, minimize bool, logger *log.Logger) swarm.Data[swarm.ProjectionInfo] {
	logger = clog.OrDefault(logger)
	combined := ingestCombine(protos, logger)
	if len(combined.Diagnostics) > 0 {
		return swarm.DataFromDiagnostics(swarm.ProjectionInfo{}, combined.Diagnostics)
	}

	var adaptGraph *swarm.AdaptGraph
	var diags []swarm.Diagnostic

	if userMachine != nil {
		prog := clog.NewProgress(logger)
		user := swarm.FromMachineType(*userMachine)
		adaptGraph, diags = adapt.AdaptedProjection(combined, subs, role, user, k, minimize)
		prog.Done("adapted_projection")
	} else {
		mg, pcDiags := projectCombineGraph(combined, subs, role, minimize, logger)
		diags = pcDiags
		adaptGraph = swarm.LiftMachine(mg)
	}

	if len(diags) > 0 {
		return swarm.DataFromDiagnostics(swarm.ProjectionInfo{}, diags)
	}

	mg := adaptGraph.ToMachineGraph()
	prog := clog.NewProgress(logger)
	branches := branch.Reachability(mg, combined)
	prog.Done("branch_reachability")

	info := swarm.ProjectionInfo{
		Projection:          mg.ToMachineType(),
		Branches:            branches,
		SpecialEventTypes:   branch.SpecialEventTypes(combined),
		ProjToMachineStates: adaptGraph.ProjToMachineStates(),
	}
	logger.Debug("projection_information", "role", role, "states", mg.G.NodeCount(), "branches", len(branches))
	return swarm.Data[swarm.ProjectionInfo]{Value: info}
}
