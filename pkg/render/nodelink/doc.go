// Package nodelink renders swarm and machine graphs as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// states appear as boxes connected by labelled arrows: [ToDOT] for a swarm
// protocol's graph ([pkg/swarm.Graph], edges labelled by SwarmLabel), and
// [ToMachineDOT] for a projected role machine ([pkg/swarm.MachineGraph],
// edges labelled by MachineLabel — Execute self-loops rendered dashed,
// Input transitions solid).
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: when true, edges carry their full label text (command,
//     role, and events for a swarm graph; Execute/Input payload for a
//     machine graph). When false, edges are unlabeled.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
