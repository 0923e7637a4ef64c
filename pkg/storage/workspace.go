package storage

import (
	"context"

	errs "github.com/matzehuels/blockrender/pkg/errors"
	"github.com/matzehuels/blockrender/pkg/serialization"
	"github.com/matzehuels/blockrender/pkg/workspace"
)

// SaveWorkspace saves ws through reg and stores the state under ws.Name.
func SaveWorkspace(ctx context.Context, st Store, reg *serialization.Registry, ws *workspace.Workspace) error {
	if err := checkName(ws.Name); err != nil {
		return err
	}
	state, err := reg.Save(ws)
	if err != nil {
		return err
	}
	data, err := state.Marshal()
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode state")
	}
	return st.Put(ctx, ws.Name, data)
}

// LoadState fetches and decodes the state stored under name.
func LoadState(ctx context.Context, st Store, name string) (serialization.State, error) {
	data, ok, err := st.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.New(errs.ErrCodeWorkspaceNotFound, "workspace %q not found", name)
	}
	return serialization.ParseState(data)
}

// LoadWorkspace restores the workspace stored under name into a fresh
// workspace.
func LoadWorkspace(ctx context.Context, st Store, reg *serialization.Registry, name string) (*workspace.Workspace, error) {
	state, err := LoadState(ctx, st, name)
	if err != nil {
		return nil, err
	}
	ws := workspace.New(name)
	if err := reg.Load(state, ws); err != nil {
		return nil, err
	}
	return ws, nil
}
