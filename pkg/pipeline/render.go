package pipeline

import (
	"context"
	"fmt"
	"time"

	errs "github.com/matzehuels/blockrender/pkg/errors"
	"github.com/matzehuels/blockrender/pkg/observability"
	"github.com/matzehuels/blockrender/pkg/render/block/constants"
	"github.com/matzehuels/blockrender/pkg/render/block/layout"
	"github.com/matzehuels/blockrender/pkg/render/block/sink"
	"github.com/matzehuels/blockrender/pkg/render/block/styles"
	"github.com/matzehuels/blockrender/pkg/render/nodelink"
	"github.com/matzehuels/blockrender/pkg/workspace"
)

// Render generates output artifacts in the requested formats. c must be the
// constants ls was computed with. ws is only read by the DOT format.
func Render(ctx context.Context, ls []*layout.Layout, ws *workspace.Workspace, c *constants.Set, opts Options) (map[string][]byte, error) {
	theme, err := styles.Lookup(opts.Theme)
	if err != nil {
		return nil, err
	}
	svgOpts := buildSVGOptions(theme, c, opts)
	hooks := observability.Pipeline()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		hooks.OnRenderStart(ctx, format)
		start := time.Now()

		var data []byte
		switch format {
		case FormatSVG:
			data = sink.RenderSVG(ls, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(ls, opts.Scale, svgOpts...)
		case FormatPDF:
			data, err = sink.RenderPDF(ls, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(ls,
				sink.WithJSONRenderer(opts.rendererName()),
				sink.WithJSONTheme(theme.Name),
				sink.WithJSONIndent())
		case FormatDOT:
			data, err = renderDOT(ws, theme, opts)
		default:
			err = ValidateFormat(format)
		}

		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func buildSVGOptions(theme styles.Theme, c *constants.Set, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{
		sink.WithStyle(theme),
		sink.WithConstants(c),
		sink.WithPadding(opts.Padding),
	}
	if opts.ShowConnections {
		svgOpts = append(svgOpts, sink.WithConnections())
	}
	return svgOpts
}

func renderDOT(ws *workspace.Workspace, theme styles.Theme, opts Options) ([]byte, error) {
	if ws == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "dot output needs the workspace")
	}
	return []byte(nodelink.ToDOT(ws, nodelink.Options{Detailed: opts.Detailed, Theme: &theme})), nil
}

func (o *Options) rendererName() string {
	if o.ConstantsPath != "" {
		return "custom"
	}
	return o.Renderer
}
