package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockrender/pkg/render/block/layout"
	"github.com/matzehuels/blockrender/pkg/workspace"
)

// layoutCommand creates the layout command for computing block layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		in      inputFlags
		output  string
		noCache bool
		originX float64
		originY float64
	)

	cmd := &cobra.Command{
		Use:   "layout [blocks.yaml|state.json]",
		Short: "Compute block layouts",
		Long: `Compute block layouts.

The input is a single block tree (JSON or YAML) or a saved workspace state.
Every top-level stack is measured with the selected renderer constants and
the layouts are written as JSON: block sizes, rows, measurables and
connection points, in painting order.

Results are cached locally for faster subsequent runs.`,
		Args: in.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, stem, err := c.load(cmd.Context(), in, args)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), ws, stem, in.source(args), output, noCache, layout.Point{X: originX, Y: originY})
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&originX, "origin-x", 0, "horizontal offset added to every stack")
	cmd.Flags().Float64Var(&originY, "origin-y", 0, "vertical offset added to every stack")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, ws *workspace.Workspace, stem, source, output string, noCache bool, origin layout.Point) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.pipelineOptions()
	opts.Origin = origin

	spinner := newSpinner(ctx, "Computing layout...")
	spinner.Start()
	ls, cacheHit, err := runner.LayoutWithCacheInfo(ctx, ws, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	data, err := layout.Marshal(ls)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = stem + ".layout.json"
	}
	if outputPath == "-" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(ws.Blocks), ws.BlockCount(), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+source)
	return nil
}
