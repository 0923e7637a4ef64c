// Package measure defines the visual primitives of a rendered block.
//
// A [Measurable] is one element of a row: a corner, a previous or next
// connection notch, an input placeholder, a field placeholder, a spacer or
// the jagged edge of a collapsed block. The set of variants is closed and
// identified by a [Type] bitmask rather than by Go types, so hot layout code
// can ask "is this on the left?" or "is this any kind of input?" with a
// single AND:
//
//	m := measure.NewSquareCorner(c, measure.PositionLeft)
//	m.Type.Is(measure.Corner)           // true
//	m.Type.Is(measure.LeftSquareCorner) // true
//	m.Type.Is(measure.Right)            // false
//
// Constructors derive width and height from a resolved [constants.Set] and
// at most one hint. They cannot fail.
//
// [constants.Set]: github.com/matzehuels/blockrender/pkg/render/block/constants.Set
package measure
