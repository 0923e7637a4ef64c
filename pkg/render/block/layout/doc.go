// Package layout turns a block's logical structure into positioned
// measurables.
//
// # Passes
//
// [Compute] rebuilds a block's layout from scratch in two passes.
//
// Row construction walks the inputs in declaration order. Each input
// contributes its fields followed by a placeholder: value inputs become
// inline or external value inputs depending on the block's inline flag,
// statement inputs become statement inputs, dummy inputs contribute fields
// only. Statement inputs always sit on their own row; on external blocks
// every input ends its row. The first row opens with a corner and the
// previous-connection notch when the block has one, and the last row
// closes with the next-connection notch and a corner. Rows narrower than
// the widest get a trailing spacer.
//
// Positioning stacks rows top to bottom and places measurables left to
// right starting at LEFT_MARGIN with ELEMENT_SPACING between them:
//
//	row.y = sum of prior row heights
//	m.x   = LEFT_MARGIN + sum of prior widths + index * ELEMENT_SPACING
//	m.y   = row.y
//
// Connection points are the notch or placeholder position shifted right by
// CONNECTION_OFFSET; the next connection sits on the bottom edge of the last
// row.
//
// # Trees
//
// [ComputeTree] lays out a block with all of its connected children and
// places them on the workspace. Every block is still laid out on its own.
package layout
