// Package nodelink renders a resolved CPM graph as a network diagram.
//
// # Overview
//
// Tasks appear as boxes connected by dependency arrows, laid out left to
// right from START to END. Critical tasks and the edges between them are
// drawn in red so the critical path reads as one continuous chain.
//
// # Usage
//
// Convert a resolved graph to DOT, then render it:
//
//	_, g, err := cpm.AnalyzeGraph(tasks, cpm.Options{})
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [Render] dispatches on a format name (dot, svg, png, pdf) and is what
// the pipeline and the HTTP API call.
//
// # Labels
//
// Plain labels show the task code and its earliest start / latest finish.
// Detailed labels add the operation, element, duration, crew and slack.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering. PDF conversion requires librsvg (rsvg-convert).
package nodelink
