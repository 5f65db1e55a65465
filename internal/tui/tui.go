// Package tui implements a read-only bubbletea explorer over an
// already-loaded set of interfacing protocols: pick a role from a list,
// then view its synthesized projection and branch-reachability map.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/swarmcheck/pkg/api"
	"github.com/matzehuels/swarmcheck/pkg/ident"
	"github.com/matzehuels/swarmcheck/pkg/protoinfo"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

var (
	colorCyan = lipgloss.Color("36")
	colorGray = lipgloss.Color("245")
	colorDim  = lipgloss.Color("240")
	colorRed  = lipgloss.Color("167")

	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim   = lipgloss.NewStyle().Foreground(colorDim)
	styleValue = lipgloss.NewStyle().Foreground(colorGray)
	styleError = lipgloss.NewStyle().Foreground(colorRed)

	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
)

// view discriminates the model's two screens.
type view int

const (
	viewRoleList view = iota
	viewDetail
)

// Model is the bubbletea model backing "swarmcheck tui".
type Model struct {
	ctx    context.Context
	runner *api.Runner

	protocols    swarm.InterfacingProtocols
	subscription swarm.Subscription
	minimize     bool

	roles  []ident.Role
	cursor int
	view   view

	detailRole ident.Role
	detail     swarm.Data[swarm.ProjectionInfo]

	err error
}

// New builds a Model that lists the roles of protocols and, on selection,
// computes each role's projection_information via runner.
func New(ctx context.Context, runner *api.Runner, protocols swarm.InterfacingProtocols, subscription swarm.Subscription, minimize bool) Model {
	roles := rolesOf(protocols)
	return Model{
		ctx:          ctx,
		runner:       runner,
		protocols:    protocols,
		subscription: subscription,
		minimize:     minimize,
		roles:        roles,
		view:         viewRoleList,
	}
}

// rolesOf collects the union of roles across every protocol, ingesting
// each independently — the same first pass [github.com/matzehuels/swarmcheck/pkg/api.ingestAll]
// runs before composition, but without surfacing ingestion diagnostics:
// the list is purely for the picker, and check/project commands already
// report ingestion errors on their own.
func rolesOf(protocols swarm.InterfacingProtocols) []ident.Role {
	set := ident.NewRoleSet()
	for _, proto := range protocols {
		info, _ := protoinfo.Ingest(proto)
		for _, r := range info.Roles() {
			set.Add(r)
		}
	}
	return ident.SortedRoles(set)
}

func (m Model) Init() tea.Cmd { return nil }

type detailMsg struct {
	role   ident.Role
	result swarm.Data[swarm.ProjectionInfo]
}

func (m Model) loadDetail(role ident.Role) tea.Cmd {
	return func() tea.Msg {
		result := m.runner.ProjectionInformation(m.ctx, role, m.protocols, 1, m.subscription, nil, m.minimize)
		return detailMsg{role: role, result: result}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.view == viewDetail {
				m.view = viewRoleList
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.view == viewRoleList && m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.view == viewRoleList && m.cursor < len(m.roles)-1 {
				m.cursor++
			}
		case "enter":
			if m.view == viewRoleList && len(m.roles) > 0 {
				role := m.roles[m.cursor]
				return m, m.loadDetail(role)
			}
		}
	case detailMsg:
		m.view = viewDetail
		m.detailRole = msg.role
		m.detail = msg.result
	}
	return m, nil
}

func (m Model) View() string {
	switch m.view {
	case viewDetail:
		return m.viewDetail()
	default:
		return m.viewRoleList()
	}
}

func (m Model) viewRoleList() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("swarmcheck — roles"))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("↑/↓ navigate  ⏎ project  q quit"))
	b.WriteString("\n\n")

	if len(m.roles) == 0 {
		b.WriteString(styleError.Render("no roles found"))
		return b.String()
	}

	for i, r := range m.roles {
		cursor := "  "
		style := listNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		b.WriteString(cursor + style.Render(string(r)) + "\n")
	}
	return b.String()
}

func (m Model) viewDetail() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(fmt.Sprintf("swarmcheck — role %s", m.detailRole)))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("esc back  q quit"))
	b.WriteString("\n\n")

	if !m.detail.OK() {
		for _, e := range m.detail.Errors {
			b.WriteString(styleError.Render(e) + "\n")
		}
		return b.String()
	}

	info := m.detail.Value
	b.WriteString(styleValue.Render(fmt.Sprintf("states: %d, transitions: %d", countStates(info.Projection), len(info.Projection.Transitions))))
	b.WriteString("\n\n")

	b.WriteString(styleTitle.Render("branches") + "\n")
	for _, event := range ident.SortedEvents(eventKeys(info.Branches)) {
		successors := info.Branches[event]
		names := make([]string, len(successors))
		for i, s := range successors {
			names[i] = string(s)
		}
		b.WriteString(fmt.Sprintf("  %s -> %s\n", event, strings.Join(names, ", ")))
	}
	return b.String()
}

func countStates(mt swarm.MachineType) int {
	states := map[ident.State]struct{}{mt.Initial: {}}
	for _, t := range mt.Transitions {
		states[t.Source] = struct{}{}
		states[t.Target] = struct{}{}
	}
	return len(states)
}

func eventKeys(m map[ident.EventType][]ident.EventType) ident.EventSet {
	out := ident.NewEventSet()
	for k := range m {
		out.Add(k)
	}
	return out
}
