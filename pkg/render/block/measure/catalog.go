package measure

import (
	"github.com/matzehuels/blockrender/pkg/render/block/constants"
)

// Position is the optional side hint of corner constructors.
type Position string

// Side hints.
const (
	PositionLeft  Position = "left"
	PositionRight Position = "right"
)

// side maps a position hint to its tag. Anything but "right" is left:
// corners are symmetric, so an absent or unknown hint is not an error.
func side(pos Position) Type {
	if pos == PositionRight {
		return Right
	}
	return Left
}

// NewSquareCorner returns a square corner on the given side.
func NewSquareCorner(c *constants.Set, pos Position) Measurable {
	return Measurable{
		Type:   Corner | Square | side(pos),
		Width:  c.NoPadding,
		Height: c.NoPadding,
	}
}

// NewRoundCorner returns a rounded corner on the given side.
func NewRoundCorner(c *constants.Set, pos Position) Measurable {
	return Measurable{
		Type:   Corner | Round | side(pos),
		Width:  c.CornerRadius,
		Height: c.CornerRadius,
	}
}

// NewPreviousConnection returns the notch a previous block plugs into.
func NewPreviousConnection(c *constants.Set) Measurable {
	return Measurable{
		Type:   Connection | PreviousConnection,
		Width:  c.NotchWidth + c.NotchOffsetLeft,
		Height: c.NotchHeight,
	}
}

// NewNextConnection returns the notch the next block hangs from.
func NewNextConnection(c *constants.Set) Measurable {
	return Measurable{
		Type:   Connection | NextConnection,
		Width:  c.NotchWidth + c.NotchOffsetLeft,
		Height: c.NotchHeight,
	}
}

// NewInlineInput returns the placeholder of a value input rendered inside
// the row.
func NewInlineInput(c *constants.Set, name string) Measurable {
	return Measurable{
		Type:   Input | InlineInput,
		Width:  c.TabWidth + c.EmptyInlineInputPadding,
		Height: c.EmptyInlineInputHeight,
		Name:   name,
	}
}

// NewExternalValueInput returns the placeholder of a value input rendered
// as a tab on the right edge of the block.
func NewExternalValueInput(c *constants.Set, name string) Measurable {
	return Measurable{
		Type:   Input | ExternalValueInput,
		Width:  c.TabWidth + c.ExternalValueInputPadding,
		Height: c.TabHeight + c.TabOffsetFromTop,
		Name:   name,
	}
}

// NewStatementInput returns the placeholder of a statement input.
func NewStatementInput(c *constants.Set, name string) Measurable {
	return Measurable{
		Type:   Input | StatementInput,
		Width:  c.NotchWidth + c.StatementInputNotchOffset,
		Height: c.EmptyStatementInputHeight,
		Name:   name,
	}
}

// NewField returns the placeholder of a field. The declared size is the
// field's own measurement; it is clamped to the minimum field size.
func NewField(c *constants.Set, name, text string, declared Size) Measurable {
	return Measurable{
		Type:   Field,
		Width:  max(declared.Width, c.FieldMinWidth),
		Height: max(declared.Height, c.FieldHeight),
		Name:   name,
		Text:   text,
	}
}

// NewJaggedEdge returns the torn edge drawn on collapsed blocks.
func NewJaggedEdge(c *constants.Set) Measurable {
	return Measurable{
		Type:   JaggedEdge,
		Width:  c.JaggedTeethWidth,
		Height: c.JaggedTeethHeight,
	}
}

// NewInRowSpacer returns a resizable gap between inline elements.
func NewInRowSpacer(c *constants.Set) Measurable {
	return Measurable{
		Type:   Spacer | InRowSpacer,
		Width:  c.MediumPadding,
		Height: c.NoPadding,
	}
}

// NewExternalSpacer returns a resizable gap in rows ending with an external
// value input.
func NewExternalSpacer(c *constants.Set) Measurable {
	return Measurable{
		Type:   Spacer | ExternalSpacer,
		Width:  c.LargePadding,
		Height: c.NoPadding,
	}
}
