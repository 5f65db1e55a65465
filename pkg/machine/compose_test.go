package machine

import (
	"testing"

	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/protoinfo"
	"github.com/matzehuels/swarmcheck/pkg/projection"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

func warehousePair(t *testing.T) (*protoinfo.ProtoInfo, *protoinfo.ProtoInfo) {
	t.Helper()
	warehouse := swarm.SwarmProtocolType{
		Initial: "0",
		Transitions: []swarm.Transition[swarm.SwarmLabel]{
			{Source: "0", Target: "1", Label: swarm.SwarmLabel{Cmd: "request", LogType: []ident.EventType{"partID"}, Role: "T"}},
			{Source: "1", Target: "2", Label: swarm.SwarmLabel{Cmd: "get", LogType: []ident.EventType{"pos"}, Role: "FL"}},
			{Source: "2", Target: "0", Label: swarm.SwarmLabel{Cmd: "deliver", LogType: []ident.EventType{"part"}, Role: "T"}},
		},
	}
	factory := swarm.SwarmProtocolType{
		Initial: "0",
		Transitions: []swarm.Transition[swarm.SwarmLabel]{
			{Source: "0", Target: "1", Label: swarm.SwarmLabel{Cmd: "request", LogType: []ident.EventType{"partID"}, Role: "T"}},
			{Source: "1", Target: "2", Label: swarm.SwarmLabel{Cmd: "deliver", LogType: []ident.EventType{"part"}, Role: "T"}},
			{Source: "2", Target: "3", Label: swarm.SwarmLabel{Cmd: "build", LogType: []ident.EventType{"car"}, Role: "F"}},
		},
	}
	wInfo, diags := protoinfo.Ingest(warehouse)
	if len(diags) != 0 {
		t.Fatalf("Ingest(warehouse) diags = %v, want none", diags)
	}
	fInfo, diags := protoinfo.Ingest(factory)
	if len(diags) != 0 {
		t.Fatalf("Ingest(factory) diags = %v, want none", diags)
	}
	return wInfo, fInfo
}

// TestComposeSynchronizesOnSharedInputEvent verifies that composing T's
// projection of the two protocols advances both sides jointly on the
// interfacing Input edges (partID, part) without any asymmetry
// diagnostics, since warehouse and factory agree on T's label shapes.
func TestComposeSynchronizesOnSharedInputEvent(t *testing.T) {
	wInfo, fInfo := warehousePair(t)
	sub := swarm.NewSubscription()
	sub.AddAll("T", ident.NewEventSet("partID", "pos", "part"))

	wProj := projection.Project(wInfo.Graphs[0], sub, "T", false)
	fProj := projection.Project(fInfo.Graphs[0], sub, "T", false)

	result := Compose(wProj, fProj, ident.NewEventSet("partID", "part"), nil)
	if result.G.NodeCount() == 0 {
		t.Fatal("Compose produced an empty graph")
	}
}

// TestProjectCombineMatchesExplicitProjectionForSingleProtocol runs
// ProjectCombine on a single-member combined ProtoInfo: the fold has
// nothing to synchronize, so the result is just that protocol's own
// projection.
func TestProjectCombineMatchesExplicitProjectionForSingleProtocol(t *testing.T) {
	wInfo, _ := warehousePair(t)
	combined := &protoinfo.ProtoInfo{
		Graphs:      wInfo.Graphs,
		MemberRoles: wInfo.MemberRoles,
	}
	sub := swarm.NewSubscription()
	sub.AddAll("T", ident.NewEventSet("partID", "pos", "part"))

	got, diags := ProjectCombine(combined, sub, "T", false)
	if len(diags) != 0 {
		t.Fatalf("ProjectCombine diags = %v, want none", diags)
	}
	want := projection.Project(wInfo.Graphs[0], sub, "T", false)
	if got.G.NodeCount() != want.G.NodeCount() {
		t.Errorf("NodeCount() = %d, want %d", got.G.NodeCount(), want.G.NodeCount())
	}
	if len(got.G.Edges()) != len(want.G.Edges()) {
		t.Errorf("Edges() = %d, want %d", len(got.G.Edges()), len(want.G.Edges()))
	}
}

// TestProjectCombineNoAsymmetryOnInterfacingComposition verifies that a
// transient lag between two protocols' local steps on the shared role is
// not reported as an asymmetric interfacing label, since the lagging side
// catches up later in the fold.
func TestProjectCombineNoAsymmetryOnInterfacingComposition(t *testing.T) {
	wInfo, fInfo := warehousePair(t)
	combined := &protoinfo.ProtoInfo{
		Graphs:      []*swarm.Graph{wInfo.Graphs[0], fInfo.Graphs[0]},
		MemberRoles: []ident.RoleSet{ident.NewRoleSet("T", "FL"), ident.NewRoleSet("T", "F")},
		RoleEventMap: mergeRoleEventMaps(wInfo.RoleEventMap, fInfo.RoleEventMap),
	}
	sub := swarm.NewSubscription()
	sub.AddAll("F", ident.NewEventSet("partID", "part", "car"))

	_, diags := ProjectCombine(combined, sub, "F", false)
	if len(diags) != 0 {
		t.Errorf("ProjectCombine diags = %v, want none (transient lag is not a defect)", diags)
	}
}

func mergeRoleEventMaps(a, b map[ident.Role][]swarm.SwarmLabel) map[ident.Role][]swarm.SwarmLabel {
	out := make(map[ident.Role][]swarm.SwarmLabel)
	for r, ls := range a {
		out[r] = append(out[r], ls...)
	}
	for r, ls := range b {
		out[r] = append(out[r], ls...)
	}
	return out
}
