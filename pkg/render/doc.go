// Package render provides visualization rendering for CPM schedules.
//
// # Overview
//
// This package contains the format conversion shared by the renderers:
//
//   - Generic format conversion (SVG to PDF/PNG) via rsvg-convert
//   - Network diagrams of the resolved task graph (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The conversion stops when
// the context is done.
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [nodelink]: github.com/matzehuels/critpath/pkg/render/nodelink
package render
