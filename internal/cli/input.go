package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/blockrender/pkg/errors"
	"github.com/matzehuels/blockrender/pkg/pipeline"
	"github.com/matzehuels/blockrender/pkg/storage"
	"github.com/matzehuels/blockrender/pkg/workspace"
)

// inputFlags selects where a command reads its workspace from: a block or
// state file given as the argument, or a stored workspace.
type inputFlags struct {
	stored string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.stored, "workspace", "w", "", "read the named stored workspace instead of a file")
}

// args validates the positional arguments against the flags.
func (f *inputFlags) args(_ *cobra.Command, args []string) error {
	switch {
	case f.stored == "" && len(args) != 1:
		return fmt.Errorf("expected a block or state file, or --workspace")
	case f.stored != "" && len(args) != 0:
		return fmt.Errorf("a file argument and --workspace are mutually exclusive")
	}
	return nil
}

// source describes the input the way it was given on the command line.
func (f *inputFlags) source(args []string) string {
	if f.stored != "" {
		return "--workspace " + f.stored
	}
	return args[0]
}

// load returns the workspace and the path stem used to name outputs.
func (c *CLI) load(ctx context.Context, f inputFlags, args []string) (*workspace.Workspace, string, error) {
	if f.stored != "" {
		if err := errs.ValidateWorkspaceName(f.stored); err != nil {
			return nil, "", err
		}
		st, err := c.openStore(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		ws, err := storage.LoadWorkspace(ctx, st, c.newRegistry(), f.stored)
		if err != nil {
			return nil, "", err
		}
		return ws, f.stored, nil
	}

	ws, err := pipeline.LoadFile(args[0], c.newRegistry())
	if err != nil {
		return nil, "", fmt.Errorf("load %s: %w", args[0], err)
	}
	return ws, basePath("", args[0]), nil
}
