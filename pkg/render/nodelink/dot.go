package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/blockrender/pkg/block"
	"github.com/matzehuels/blockrender/pkg/render"
	"github.com/matzehuels/blockrender/pkg/render/block/styles"
	"github.com/matzehuels/blockrender/pkg/workspace"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds field values to block labels and draws the workspace
	// variables with edges to the fields that reference them.
	Detailed bool
	// Theme colours block nodes by category. The zero value leaves them white.
	Theme *styles.Theme
}

// ToDOT converts a workspace to Graphviz DOT format. Every block is a node;
// input connections are solid edges labelled with the input name and next
// connections are dashed. The result can be rendered with [RenderSVG],
// [RenderPDF], or [RenderPNG].
func ToDOT(ws *workspace.Workspace, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var edges []string
	for _, root := range ws.Blocks {
		root.Walk(func(b *block.Block) bool {
			fmt.Fprintf(&buf, "  %q [%s];\n", b.ID, strings.Join(fmtAttrs(b, opts), ", "))
			for _, in := range b.Inputs {
				if in.Child != nil {
					edges = append(edges, fmt.Sprintf("  %q -> %q [label=%q];\n", b.ID, in.Child.ID, in.Name))
				}
				if !opts.Detailed {
					continue
				}
				for _, f := range in.Fields {
					if f.Kind == block.FieldVariable {
						edges = append(edges, fmt.Sprintf("  %q -> %q [style=dotted, arrowhead=none];\n", varNode(f.VariableID), b.ID))
					}
				}
			}
			if b.Next != nil {
				edges = append(edges, fmt.Sprintf("  %q -> %q [style=dashed];\n", b.ID, b.Next.ID))
			}
			return true
		})
	}

	if opts.Detailed {
		for _, v := range ws.Variables {
			label := v.Name
			if v.Type != "" {
				label += ": " + v.Type
			}
			fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, style=filled, fillcolor=lightgrey];\n", varNode(v.ID), label)
		}
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func varNode(id string) string { return "var:" + id }

func fmtLabel(b *block.Block, detailed bool) string {
	if !detailed {
		return b.Type
	}
	parts := []string{b.Type}
	for _, in := range b.Inputs {
		for _, f := range in.Fields {
			if f.Name != "" && f.Text != "" {
				parts = append(parts, fmt.Sprintf("%s: %s", f.Name, f.Text))
			}
		}
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(b *block.Block, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(b, opts.Detailed))}
	if opts.Theme != nil {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", opts.Theme.Colour(b.Type)), "fontcolor=white")
	}
	if b.Collapsed {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based <svg> header with one
// whose width and height match the viewBox.
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

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// Requires librsvg.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
