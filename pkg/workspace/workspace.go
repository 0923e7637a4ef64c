// Package workspace holds the editor state that serializers save and load:
// top-level block stacks and the variable map.
package workspace

import (
	"github.com/google/uuid"

	"github.com/matzehuels/blockrender/pkg/block"
	errs "github.com/matzehuels/blockrender/pkg/errors"
)

// Variable is a named, typed workspace variable. The empty type is the
// untyped default.
type Variable struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Workspace is the mutable state a serialization registry operates on.
// It is not safe for concurrent use.
type Workspace struct {
	Name      string
	Blocks    []*block.Block
	Variables []Variable
}

// New returns an empty workspace.
func New(name string) *Workspace {
	return &Workspace{Name: name}
}

// AddBlock adds a top-level block stack. Blocks without ids get a fresh
// one; ids already present in the workspace are rejected.
func (w *Workspace) AddBlock(b *block.Block) error {
	if b == nil {
		return errs.New(errs.ErrCodeInvalidInput, "nil block")
	}
	b.EnsureIDs(uuid.NewString)

	seen := make(map[string]bool)
	for _, top := range w.Blocks {
		top.Walk(func(blk *block.Block) bool {
			seen[blk.ID] = true
			return true
		})
	}
	var dup string
	b.Walk(func(blk *block.Block) bool {
		if seen[blk.ID] {
			dup = blk.ID
			return false
		}
		seen[blk.ID] = true
		return true
	})
	if dup != "" {
		return errs.New(errs.ErrCodeDuplicateID, "block id %q already in workspace", dup)
	}

	w.Blocks = append(w.Blocks, b)
	return nil
}

// FindBlock returns the block with the given id, searching every stack.
func (w *Workspace) FindBlock(id string) (*block.Block, bool) {
	var found *block.Block
	for _, top := range w.Blocks {
		top.Walk(func(blk *block.Block) bool {
			if blk.ID == id {
				found = blk
				return false
			}
			return true
		})
		if found != nil {
			return found, true
		}
	}
	return nil, false
}

// BlockCount returns the number of blocks in all stacks.
func (w *Workspace) BlockCount() int {
	n := 0
	for _, top := range w.Blocks {
		n += top.Count()
	}
	return n
}

// AddVariable creates a variable with a fresh id.
func (w *Workspace) AddVariable(name, typ string) (Variable, error) {
	v := Variable{ID: uuid.NewString(), Name: name, Type: typ}
	if err := w.PutVariable(v); err != nil {
		return Variable{}, err
	}
	return v, nil
}

// PutVariable adds v as is. Empty names, reused ids and reused name/type
// pairs are rejected.
func (w *Workspace) PutVariable(v Variable) error {
	if v.Name == "" {
		return errs.New(errs.ErrCodeInvalidInput, "variable has no name")
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	for _, existing := range w.Variables {
		if existing.ID == v.ID {
			return errs.New(errs.ErrCodeDuplicateID, "variable id %q already in workspace", v.ID)
		}
		if existing.Name == v.Name && existing.Type == v.Type {
			return errs.New(errs.ErrCodeDuplicateID, "variable %q of type %q already exists", v.Name, v.Type)
		}
	}
	w.Variables = append(w.Variables, v)
	return nil
}

// Variable returns the variable with the given id.
func (w *Workspace) Variable(id string) (Variable, bool) {
	for _, v := range w.Variables {
		if v.ID == id {
			return v, true
		}
	}
	return Variable{}, false
}

// ClearBlocks removes every block.
func (w *Workspace) ClearBlocks() { w.Blocks = nil }

// ClearVariables removes every variable.
func (w *Workspace) ClearVariables() { w.Variables = nil }

// Empty reports whether the workspace holds neither blocks nor variables.
func (w *Workspace) Empty() bool {
	return len(w.Blocks) == 0 && len(w.Variables) == 0
}
