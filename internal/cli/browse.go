package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockrender/pkg/render/block/layout"
	"github.com/matzehuels/blockrender/pkg/workspace"
)

// browseCommand creates the interactive block inspector.
func (c *CLI) browseCommand() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "browse [blocks.yaml|state.json]",
		Short: "Pick a block and inspect its layout",
		Long: `Pick a block and inspect its layout.

Lists every block of the workspace in painting order. Selecting one prints
its size, connection points and the rows the layout engine built for it.`,
		Args: in.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, _, err := c.load(cmd.Context(), in, args)
			if err != nil {
				return err
			}
			return c.runBrowse(cmd.Context(), ws)
		},
	}

	in.register(cmd)
	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, ws *workspace.Workspace) error {
	if ws.Empty() {
		printInfo("Workspace has no blocks")
		return nil
	}

	runner, err := c.newRunner(false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	ls, err := runner.Layout(ctx, ws, c.pipelineOptions())
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	final, err := tea.NewProgram(NewBlockListModel(ws), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("block picker: %w", err)
	}
	sel := final.(BlockListModel).Selected
	if sel == nil {
		return nil
	}

	i := slices.IndexFunc(ls, func(l *layout.Layout) bool { return l.BlockID == sel.Block.ID })
	if i < 0 {
		return fmt.Errorf("no layout for block %s", sel.Block.Label())
	}
	printLayout(ls[i])
	return nil
}

// printLayout shows one block layout: summary values, then a row table.
func printLayout(l *layout.Layout) {
	fmt.Println(StyleTitle.Render(l.Type))
	printKeyValue("id", l.BlockID)
	printKeyValue("origin", fmtPoint(l.Origin))
	printKeyValue("size", fmt.Sprintf("%g × %g", l.Width, l.Height))
	if l.Previous != nil {
		printKeyValue("previous", fmtPoint(*l.Previous))
	}
	if l.Next != nil {
		printKeyValue("next", fmtPoint(*l.Next))
	}
	names := make([]string, 0, len(l.Inputs))
	for name := range l.Inputs {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		printKeyValue("input "+name, fmtPoint(l.Inputs[name]))
	}
	printNewline()

	rows := make([][]string, len(l.Rows))
	for i, r := range l.Rows {
		kinds := make([]string, len(r.Measurables))
		for j, m := range r.Measurables {
			kinds[j] = m.Type.Kind()
		}
		rows[i] = []string{
			fmt.Sprint(i),
			fmt.Sprintf("%g", r.Y),
			fmt.Sprintf("%g × %g", r.Width, r.Height),
			strings.Join(kinds, " "),
		}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Row", "Y", "Size", "Elements").
		Rows(rows...)
	fmt.Println(t.Render())
}

func fmtPoint(p layout.Point) string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}
