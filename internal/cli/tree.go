package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockrender/pkg/pipeline"
	"github.com/matzehuels/blockrender/pkg/render/block/styles"
	"github.com/matzehuels/blockrender/pkg/render/nodelink"
	"github.com/matzehuels/blockrender/pkg/workspace"
)

// treeCommand creates the tree command, a node-link view of how blocks are
// connected.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		in       inputFlags
		format   string
		output   string
		detailed bool
		scale    float64
	)

	cmd := &cobra.Command{
		Use:   "tree [blocks.yaml|state.json]",
		Short: "Draw the block connection tree with Graphviz",
		Long: `Draw the block connection tree with Graphviz.

Each block becomes a node. Input connections are solid edges labelled with
the input name; next connections are dashed. With --detailed, field values
are shown and variable fields link to their variables.`,
		Args: in.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, stem, err := c.load(cmd.Context(), in, args)
			if err != nil {
				return err
			}
			if output == "" {
				output = stem + ".tree." + format
			}
			return c.runTree(cmd.Context(), ws, format, output, detailed, scale)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "output format: svg, dot, pdf, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <input>.tree.<format>)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show field values and variables")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "PNG scale factor")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, ws *workspace.Workspace, format, output string, detailed bool, scale float64) error {
	theme, err := styles.Lookup(c.theme)
	if err != nil {
		return err
	}
	dot := nodelink.ToDOT(ws, nodelink.Options{Detailed: detailed, Theme: &theme})
	c.Logger.Debug("generated dot", "bytes", len(dot), "blocks", ws.BlockCount())

	var data []byte
	switch format {
	case pipeline.FormatDOT:
		data = []byte(dot)
	case pipeline.FormatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case pipeline.FormatPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	case pipeline.FormatPNG:
		data, err = nodelink.RenderPNG(ctx, dot, scale)
	default:
		return fmt.Errorf("tree: unsupported format %q (svg, dot, pdf, png)", format)
	}
	if err != nil {
		return fmt.Errorf("render tree: %w", err)
	}

	if err := writeFile(output, data); err != nil {
		return err
	}
	if output != "-" {
		printSuccess("Tree complete")
		printFile(output)
	}
	return nil
}
