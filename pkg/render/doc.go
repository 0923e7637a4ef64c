// Package render holds the output side of blockrender.
//
// The [block] subpackages turn block structures into laid-out, painted
// blocks; [nodelink] draws a workspace as a connection graph through
// Graphviz. Both produce SVG, which [ToPDF] and [ToPNG] convert with the
// external rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(layouts)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0) // 2x scale
//
// Key block subpackages:
//   - [block/constants]: named rendering dimensions
//   - [block/measure]: visual primitives
//   - [block/row]: row aggregation
//   - [block/layout]: block and stack layout
//   - [block/styles]: themes
//   - [block/sink]: SVG, JSON, PDF and PNG output
//
// [block]: github.com/matzehuels/blockrender/pkg/render/block
// [block/constants]: github.com/matzehuels/blockrender/pkg/render/block/constants
// [block/measure]: github.com/matzehuels/blockrender/pkg/render/block/measure
// [block/row]: github.com/matzehuels/blockrender/pkg/render/block/row
// [block/layout]: github.com/matzehuels/blockrender/pkg/render/block/layout
// [block/styles]: github.com/matzehuels/blockrender/pkg/render/block/styles
// [block/sink]: github.com/matzehuels/blockrender/pkg/render/block/sink
// [nodelink]: github.com/matzehuels/blockrender/pkg/render/nodelink
package render
