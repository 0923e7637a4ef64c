package block

import (
	errs "github.com/matzehuels/blockrender/pkg/errors"
)

// Validate checks the structural contract the layout engine relies on.
// Violations are programming errors in whatever built the block and are
// reported with [errs.ErrCodeContractViolation]. Only b itself is checked;
// see [Block.ValidateTree] for connected blocks.
func (b *Block) Validate() error {
	if b.Type == "" {
		return violation(b, "block has no type")
	}
	switch b.Shape {
	case "", ShapeSquare, ShapeRounded:
	default:
		return violation(b, "unknown shape %q", b.Shape)
	}

	inputs := make(map[string]bool, len(b.Inputs))
	fields := make(map[string]bool)
	for i, in := range b.Inputs {
		if !in.Kind.Valid() {
			return violation(b, "input %d (%q) has unknown kind %q", i, in.Name, in.Kind)
		}
		if in.Name != "" {
			if inputs[in.Name] {
				return violation(b, "duplicate input name %q", in.Name)
			}
			inputs[in.Name] = true
		} else if in.Kind != InputDummy {
			return violation(b, "%s input %d has no name", in.Kind, i)
		}

		for _, f := range in.Fields {
			if f.Name != "" {
				if fields[f.Name] {
					return violation(b, "duplicate field name %q", f.Name)
				}
				fields[f.Name] = true
			}
			if f.Width < 0 || f.Height < 0 {
				return violation(b, "field %q has negative size", f.Name)
			}
			if f.Kind == FieldVariable && f.VariableID == "" {
				return violation(b, "variable field %q references no variable", f.Name)
			}
		}

		if in.Child == nil {
			continue
		}
		switch {
		case in.Kind == InputDummy:
			return violation(b, "dummy input %q cannot hold a block", in.Name)
		case in.Kind.IsStatement() && !in.Child.HasPrevious:
			return violation(b, "statement input %q holds %s without a previous connection", in.Name, in.Child.Label())
		}
	}

	if b.Next != nil {
		if !b.HasNext {
			return violation(b, "next block attached without a next connection")
		}
		if !b.Next.HasPrevious {
			return violation(b, "next block %s has no previous connection", b.Next.Label())
		}
	}
	return nil
}

// ValidateTree validates b and every block connected to it.
func (b *Block) ValidateTree() error {
	var err error
	b.Walk(func(blk *Block) bool {
		err = blk.Validate()
		return err == nil
	})
	return err
}

func violation(b *Block, format string, args ...any) error {
	e := errs.New(errs.ErrCodeContractViolation, format, args...)
	e.Message = b.Label() + ": " + e.Message
	return e
}
