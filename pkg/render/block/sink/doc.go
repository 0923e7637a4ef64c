// Package sink provides output format renderers for laid-out blocks.
//
// A "sink" transforms layouts computed by [layout.ComputeTree] into a final
// output format:
//
//   - SVG: one outline per block traced from its measurables (corners,
//     notches, statement mouths, value tabs, jagged edges), field labels
//     and optional connection markers
//   - JSON: the layouts plus their bounding box, for external tools
//   - PDF and PNG: SVG converted with rsvg-convert
//
// Basic usage:
//
//	ls, _ := layout.ComputeTree(c, root, layout.Point{})
//	svg := sink.RenderSVG(ls,
//	    sink.WithStyle(styles.Zelos()),
//	    sink.WithConstants(c),
//	    sink.WithConnections(),
//	)
//
// [layout.ComputeTree]: github.com/matzehuels/blockrender/pkg/render/block/layout.ComputeTree
package sink
