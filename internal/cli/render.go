package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockrender/pkg/pipeline"
	"github.com/matzehuels/blockrender/pkg/workspace"
)

// renderFlags holds the render-only command-line flags.
type renderFlags struct {
	formats     string
	output      string
	noCache     bool
	refresh     bool
	connections bool
	detailed    bool
	padding     float64
	scale       float64
}

// renderCommand creates the render command for drawing blocks.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		in    inputFlags
		flags = renderFlags{padding: pipeline.DefaultPadding, scale: pipeline.DefaultScale}
	)

	cmd := &cobra.Command{
		Use:   "render [blocks.yaml|state.json]",
		Short: "Draw blocks as SVG, PNG, PDF, JSON or DOT",
		Long: `Draw blocks as SVG, PNG, PDF, JSON or DOT.

The input is a single block tree (JSON or YAML), a saved workspace state, or
a stored workspace (--workspace). Layouts are computed with the selected
renderer constants and drawn with the selected theme. PNG and PDF output
needs rsvg-convert on PATH.

Results are cached locally for faster subsequent runs.`,
		Args: in.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			opts.Formats = parseFormats(flags.formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			opts.ShowConnections = flags.connections
			opts.Detailed = flags.detailed
			opts.Padding = flags.padding
			opts.Scale = flags.scale
			opts.Refresh = flags.refresh

			ws, stem, err := c.load(cmd.Context(), in, args)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), ws, stem, opts, flags)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&flags.connections, "connections", false, "mark connection points")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "include field values and variables (dot)")
	cmd.Flags().Float64Var(&flags.padding, "padding", flags.padding, "margin around the drawing")
	cmd.Flags().Float64Var(&flags.scale, "scale", flags.scale, "PNG scale factor")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, ws *workspace.Workspace, stem string, opts pipeline.Options, flags renderFlags) error {
	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, "Rendering...")
	spinner.Start()
	result, err := runner.Execute(ctx, ws, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %d blocks", result.Stats.BlockCount))

	return writeArtifacts(result, opts.Formats, stem, flags.output)
}

// writeArtifacts writes each artifact to <base>.<format>. A single format
// with an explicit output path goes exactly there ("-" is stdout).
func writeArtifacts(result *pipeline.Result, formats []string, stem, output string) error {
	if len(formats) == 1 && output != "" {
		if err := writeFile(output, result.Artifacts[formats[0]]); err != nil {
			return err
		}
		if output != "-" {
			printSuccess("Render complete")
			printFile(output)
			printStats(result.Stats.StackCount, result.Stats.BlockCount, result.CacheInfo.RenderHit)
		}
		return nil
	}

	base := stem
	if output != "" {
		base = basePath(output, stem)
	}
	printSuccess("Render complete")
	for _, f := range formats {
		path := base + "." + f
		if err := writeFile(path, result.Artifacts[f]); err != nil {
			return err
		}
		printFile(path)
	}
	printStats(result.Stats.StackCount, result.Stats.BlockCount, result.CacheInfo.RenderHit)
	return nil
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

