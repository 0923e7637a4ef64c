// Package nodelink renders a workspace as a node-link diagram of its block
// connections.
//
// Where the block sinks draw blocks as they appear in an editor, this
// package shows the program structure: which block sits in which input of
// which parent, and which blocks follow each other in a stack.
//
// # Usage
//
//	dot := nodelink.ToDOT(ws, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0) // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
