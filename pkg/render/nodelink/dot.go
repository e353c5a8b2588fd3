package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/critpath/pkg/cpm"
	errs "github.com/matzehuels/critpath/pkg/errors"
	"github.com/matzehuels/critpath/pkg/render"
)

// Output formats understood by [Render].
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// Formats lists every format [Render] accepts.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatDOT}

const criticalColor = "#c0392b"

// Options configures network diagram rendering.
type Options struct {
	// Detailed adds operation, element, duration, crew and slack to labels.
	// When false, labels show the code and the ES / LF pair.
	Detailed bool
}

// ToDOT converts a graph to Graphviz DOT source. The graph is expected to
// be resolved; an unresolved graph renders with zeroed schedule values and
// nothing highlighted.
//
// An edge is critical when both ends are critical and the successor starts
// exactly when the predecessor finishes.
func ToDOT(g *cpm.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	nodes := g.Nodes()
	for _, n := range nodes {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Code(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, from := range nodes {
		for _, to := range g.Successors(from) {
			if isCriticalEdge(from, to) {
				fmt.Fprintf(&buf, "  %q -> %q [color=%q, penwidth=2];\n", from.Code(), to.Code(), criticalColor)
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", from.Code(), to.Code())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func isCriticalEdge(from, to *cpm.Node) bool {
	return from.IsCritical() && to.IsCritical() && to.EarliestStart == from.EarliestFinish
}

func fmtLabel(n *cpm.Node, detailed bool) string {
	if n.IsAnchor() {
		return fmt.Sprintf("%s\nday %d", n.Code(), n.EarliestStart)
	}
	timing := fmt.Sprintf("ES %d | LF %d", n.EarliestStart, n.LatestFinish)
	if !detailed {
		return n.Code() + "\n" + timing
	}

	parts := []string{n.Code()}
	if n.Task.OperationName != "" || n.Task.ElementName != "" {
		parts = append(parts, strings.TrimSpace(n.Task.OperationName+" "+n.Task.ElementName))
	}
	parts = append(parts,
		fmt.Sprintf("duration: %d", n.Duration),
		timing,
		fmt.Sprintf("slack: %d", n.Slack),
	)
	if n.Task.Crew.Name != "" {
		parts = append(parts, fmt.Sprintf("crew: %s x%d", n.Task.Crew.Name, n.Task.Crew.Size))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *cpm.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.IsAnchor() {
		attrs = append(attrs, "shape=ellipse", "style=filled", "fillcolor=lightgrey")
	}
	if n.IsCritical() {
		attrs = append(attrs, fmt.Sprintf("color=%q", criticalColor), "penwidth=2")
	}
	return attrs
}

// Render produces the diagram in the named format. DOT output is the
// source itself and needs no Graphviz.
func Render(ctx context.Context, dot, format string) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return RenderSVG(ctx, dot)
	case FormatPNG:
		return RenderPNG(ctx, dot)
	case FormatPDF:
		return RenderPDF(ctx, dot)
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "unsupported render format %q (want one of %s)",
			format, strings.Join(Formats, ", "))
	}
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderGraphviz(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG. With librsvg installed the SVG is
// rasterized at 2x; otherwise Graphviz's own PNG renderer is used.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	if !render.HasConverter() {
		return renderGraphviz(ctx, dot, graphviz.PNG)
	}
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, 2.0)
}

// RenderPDF renders DOT source as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

func renderGraphviz(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg tag with one sized in
// pixels so browsers scale the diagram consistently.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
