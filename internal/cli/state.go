package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/blockrender/pkg/errors"
	"github.com/matzehuels/blockrender/pkg/pipeline"
	"github.com/matzehuels/blockrender/pkg/storage"
	"github.com/matzehuels/blockrender/pkg/workspace"
)

// stateCommand creates the workspace storage command.
func (c *CLI) stateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Save, load, clear and list stored workspaces",
		Long: `Save, load, clear and list stored workspaces.

Workspaces are stored as serialized state documents in the backend selected
with --store (file, bolt, redis or mongo).`,
	}

	cmd.AddCommand(c.stateSaveCommand())
	cmd.AddCommand(c.stateLoadCommand())
	cmd.AddCommand(c.stateClearCommand())
	cmd.AddCommand(c.stateListCommand())

	return cmd
}

func (c *CLI) stateSaveCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "save [blocks.yaml|state.json]",
		Short: "Store a block file or state document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := pipeline.LoadFile(args[0], c.newRegistry())
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			if name != "" {
				ws.Name = name
			}

			st, err := c.openStore(ctx)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			if err := storage.SaveWorkspace(ctx, st, c.newRegistry(), ws); err != nil {
				return err
			}
			printSuccess("Saved workspace %s", StyleValue.Render(ws.Name))
			printSummary(ws)
			printNewline()
			printNextStep("Render", fmt.Sprintf("%s render --workspace %s", appName, ws.Name))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "workspace name (default: file name)")
	return cmd
}

func (c *CLI) stateLoadCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "load <name>",
		Short: "Print or export a stored workspace state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			state, err := storage.LoadState(ctx, st, args[0])
			if err != nil {
				return err
			}
			reg := c.newRegistry()
			for _, id := range reg.Unclaimed(state) {
				c.Logger.Warn("no serializer for saved entry", "id", id)
			}

			// Restore to check the document still loads.
			ws := workspace.New(args[0])
			if err := reg.Load(state, ws); err != nil {
				return err
			}
			data, err := state.Marshal()
			if err != nil {
				return errs.Wrap(errs.ErrCodeInternal, err, "encode state")
			}
			if output == "" {
				output = "-"
			}
			if err := writeFile(output, append(data, '\n')); err != nil {
				return err
			}
			if output != "-" {
				printSuccess("Exported workspace %s", StyleValue.Render(args[0]))
				printFile(output)
				printSummary(ws)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (c *CLI) stateClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <name>...",
		Short: "Remove stored workspaces",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			for _, name := range args {
				if err := errs.ValidateWorkspaceName(name); err != nil {
					return err
				}
				_, ok, err := st.Get(ctx, name)
				if err != nil {
					return err
				}
				if !ok {
					printWarning("No workspace named %s", name)
					continue
				}
				if err := st.Delete(ctx, name); err != nil {
					return err
				}
				printSuccess("Removed workspace %s", StyleValue.Render(name))
			}
			return nil
		},
	}
}

func (c *CLI) stateListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			names, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No stored workspaces")
				return nil
			}
			fmt.Println(StyleTitle.Render("Workspaces"))
			for _, name := range names {
				fmt.Println("  " + StyleValue.Render(name))
			}
			if fs, ok := st.(*storage.FileStore); ok {
				printDetail("Directory: %s", filepath.Clean(fs.Path()))
			}
			return nil
		},
	}
}

func printSummary(ws *workspace.Workspace) {
	printKeyValue("stacks", strconv.Itoa(len(ws.Blocks)))
	printKeyValue("blocks", strconv.Itoa(ws.BlockCount()))
	printKeyValue("variables", strconv.Itoa(len(ws.Variables)))
}
