// Package block describes the logical structure of editor blocks.
//
// A [Block] is what the layout engine reads: an ordered list of inputs, each
// carrying fields and optionally a connected child block, plus the block's
// connection capabilities. Blocks form trees through input children and
// sequences through [Block.Next].
//
// Block files are JSON or YAML; see [ReadFile].
package block

import (
	"fmt"
)

// InputKind distinguishes how an input is rendered.
type InputKind string

// Input kinds.
const (
	InputValue             InputKind = "value"
	InputStatement         InputKind = "statement"
	InputExternalStatement InputKind = "external-statement"
	InputDummy             InputKind = "dummy"
)

// IsStatement reports whether k holds a nested statement stack.
func (k InputKind) IsStatement() bool {
	return k == InputStatement || k == InputExternalStatement
}

// Valid reports whether k is one of the known input kinds.
func (k InputKind) Valid() bool {
	switch k {
	case InputValue, InputStatement, InputExternalStatement, InputDummy:
		return true
	}
	return false
}

// Shape selects the corner style of blocks with connection notches.
type Shape string

// Block shapes.
const (
	ShapeSquare  Shape = "square"
	ShapeRounded Shape = "rounded"
)

// FieldKind distinguishes plain fields from variable references.
type FieldKind string

// Field kinds.
const (
	FieldLabel    FieldKind = "label"
	FieldText     FieldKind = "text"
	FieldNumber   FieldKind = "number"
	FieldDropdown FieldKind = "dropdown"
	FieldVariable FieldKind = "variable"
)

// Field is an editable or static element inside an input.
type Field struct {
	Name string    `json:"name,omitempty" yaml:"name,omitempty"`
	Kind FieldKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Text string    `json:"text,omitempty" yaml:"text,omitempty"`

	// Width and Height are the measured size of the field's content. Zero
	// means "use the minimum field size".
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`

	// VariableID references a workspace variable for variable fields.
	VariableID string `json:"variable_id,omitempty" yaml:"variable_id,omitempty"`
}

// Input is one logical input of a block.
type Input struct {
	Name   string    `json:"name" yaml:"name"`
	Kind   InputKind `json:"kind" yaml:"kind"`
	Fields []Field   `json:"fields,omitempty" yaml:"fields,omitempty"`

	// Child is the block plugged into this input. For statement inputs it is
	// the first block of the nested stack, continued through Child.Next.
	Child *Block `json:"child,omitempty" yaml:"child,omitempty"`
}

// Block is the logical structure of a single block.
type Block struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Type string `json:"type" yaml:"type"`

	Inline    bool  `json:"inline,omitempty" yaml:"inline,omitempty"`
	Collapsed bool  `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
	Shape     Shape `json:"shape,omitempty" yaml:"shape,omitempty"`

	HasPrevious bool `json:"previous,omitempty" yaml:"previous,omitempty"`
	HasNext     bool `json:"next,omitempty" yaml:"next,omitempty"`

	Inputs []Input `json:"inputs,omitempty" yaml:"inputs,omitempty"`

	// Next is the block attached below this one.
	Next *Block `json:"next_block,omitempty" yaml:"next_block,omitempty"`

	// X and Y position top-level blocks on the workspace.
	X float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y float64 `json:"y,omitempty" yaml:"y,omitempty"`
}

// Input returns the input called name.
func (b *Block) Input(name string) (*Input, bool) {
	for i := range b.Inputs {
		if b.Inputs[i].Name == name {
			return &b.Inputs[i], true
		}
	}
	return nil, false
}

// Label returns a short human-readable description of b.
func (b *Block) Label() string {
	if b.ID == "" {
		return b.Type
	}
	return fmt.Sprintf("%s (%s)", b.Type, b.ID)
}

// Walk visits b and every block connected below it depth first: inputs in
// declaration order, then the next block. Returning false from fn stops the
// walk early; Walk reports whether it completed.
func (b *Block) Walk(fn func(*Block) bool) bool {
	if b == nil {
		return true
	}
	if !fn(b) {
		return false
	}
	for i := range b.Inputs {
		if !b.Inputs[i].Child.Walk(fn) {
			return false
		}
	}
	return b.Next.Walk(fn)
}

// Count returns the number of blocks reachable from b, including b.
func (b *Block) Count() int {
	n := 0
	b.Walk(func(*Block) bool {
		n++
		return true
	})
	return n
}

// EnsureIDs assigns an id from gen to every block in the tree that lacks
// one.
func (b *Block) EnsureIDs(gen func() string) {
	b.Walk(func(blk *Block) bool {
		if blk.ID == "" {
			blk.ID = gen()
		}
		return true
	})
}

// VariableIDs returns the ids referenced by variable fields anywhere in the
// tree, in walk order and without duplicates.
func (b *Block) VariableIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	b.Walk(func(blk *Block) bool {
		for _, in := range blk.Inputs {
			for _, f := range in.Fields {
				if f.Kind == FieldVariable && f.VariableID != "" && !seen[f.VariableID] {
					seen[f.VariableID] = true
					ids = append(ids, f.VariableID)
				}
			}
		}
		return true
	})
	return ids
}
