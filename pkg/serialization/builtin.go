package serialization

import (
	"encoding/json"

	"github.com/matzehuels/blockrender/pkg/block"
	errs "github.com/matzehuels/blockrender/pkg/errors"
	"github.com/matzehuels/blockrender/pkg/workspace"
)

// Built-in serializer ids and priorities. Variables load before blocks so
// that variable fields can be checked against the workspace.
const (
	VariablesID       = "variables"
	VariablesPriority = 100
	BlocksID          = "blocks"
	BlocksPriority    = 50
)

// NewDefaultRegistry returns a registry with the variable and block
// serializers registered.
func NewDefaultRegistry(opts ...Option) *Registry {
	r := NewRegistry(opts...)
	// Both ids are fresh, so neither call can fail.
	_ = r.Register(VariablesID, Variables{})
	_ = r.Register(BlocksID, Blocks{})
	return r
}

// Variables serializes the workspace variable map as a JSON array.
type Variables struct{}

func (Variables) Priority() int { return VariablesPriority }

func (Variables) Save(ws *workspace.Workspace) (any, error) {
	if len(ws.Variables) == 0 {
		return nil, nil
	}
	return ws.Variables, nil
}

// Load replaces the workspace variables with the saved ones.
func (Variables) Load(data json.RawMessage, ws *workspace.Workspace) error {
	var vars []workspace.Variable
	if err := json.Unmarshal(data, &vars); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidState, err, "decode variables")
	}
	ws.ClearVariables()
	for _, v := range vars {
		if err := ws.PutVariable(v); err != nil {
			return err
		}
	}
	return nil
}

func (Variables) Clear(ws *workspace.Workspace) { ws.ClearVariables() }

// Blocks serializes top-level block stacks.
type Blocks struct{}

type blocksState struct {
	LanguageVersion int            `json:"languageVersion"`
	Blocks          []*block.Block `json:"blocks"`
}

func (Blocks) Priority() int { return BlocksPriority }

func (Blocks) Save(ws *workspace.Workspace) (any, error) {
	if len(ws.Blocks) == 0 {
		return nil, nil
	}
	return blocksState{Blocks: ws.Blocks}, nil
}

// Load replaces the workspace stacks with the saved ones. Stacks that break
// the block contract or reference variables missing from ws are rejected.
func (Blocks) Load(data json.RawMessage, ws *workspace.Workspace) error {
	var st blocksState
	if err := json.Unmarshal(data, &st); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidState, err, "decode blocks")
	}
	ws.ClearBlocks()
	for _, b := range st.Blocks {
		if b == nil {
			continue
		}
		if err := b.ValidateTree(); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidState, err, "saved block %s", b.Label())
		}
		for _, id := range b.VariableIDs() {
			if _, ok := ws.Variable(id); !ok {
				return errs.New(errs.ErrCodeInvalidState, "block %s references unknown variable %q", b.Label(), id)
			}
		}
		if err := ws.AddBlock(b); err != nil {
			return err
		}
	}
	return nil
}

func (Blocks) Clear(ws *workspace.Workspace) { ws.ClearBlocks() }
