// Package row groups measurables into the horizontal rows of a block.
//
// A [Row] keeps its members in rendering order (left to right) and derives
// its dimensions from them:
//
//	height = max(MIN_ROW_HEIGHT, max member height)
//	width  = sum of member widths + (n-1) * ELEMENT_SPACING
//
// Dimensions are recomputed on every mutation, so the getters never return
// stale values.
package row

import (
	"slices"

	"github.com/matzehuels/blockrender/pkg/render/block/constants"
	"github.com/matzehuels/blockrender/pkg/render/block/measure"
)

// Row is an ordered sequence of measurables laid out horizontally.
// Rows are created fresh for every layout pass and are not shared.
type Row struct {
	members   []measure.Measurable
	minHeight float64
	spacing   float64

	width  float64
	height float64

	// Y is the absolute top of the row; set by the positioning pass.
	Y float64
}

// New creates an empty row using the minimum height and element spacing
// of c.
func New(c *constants.Set) *Row {
	r := &Row{
		minHeight: c.MinRowHeight,
		spacing:   c.ElementSpacing,
	}
	r.recompute()
	return r
}

// Append adds m to the end of the row.
func (r *Row) Append(m measure.Measurable) {
	r.members = append(r.members, m)
	r.recompute()
}

// Insert adds m at index i, shifting later members right. An index past
// the end appends.
func (r *Row) Insert(i int, m measure.Measurable) {
	i = min(max(i, 0), len(r.members))
	r.members = slices.Insert(r.members, i, m)
	r.recompute()
}

// Resize changes the width of the spacer at index i. It reports false when
// i is out of range or the member is not a spacer.
func (r *Row) Resize(i int, width float64) bool {
	if i < 0 || i >= len(r.members) {
		return false
	}
	if !r.members[i].Resize(width) {
		return false
	}
	r.recompute()
	return true
}

// Width returns the aggregate width of the row.
func (r *Row) Width() float64 { return r.width }

// Height returns the height of the row.
func (r *Row) Height() float64 { return r.height }

// Len returns the number of members.
func (r *Row) Len() int { return len(r.members) }

// At returns the member at index i. The pointer stays valid until the next
// Append and is how the positioning pass writes offsets.
func (r *Row) At(i int) *measure.Measurable { return &r.members[i] }

// Measurables returns a copy of the members in rendering order.
func (r *Row) Measurables() []measure.Measurable {
	return append([]measure.Measurable(nil), r.members...)
}

// Each calls fn for every member in rendering order. fn may update
// offsets but must not resize members; use Resize for spacers.
func (r *Row) Each(fn func(i int, m *measure.Measurable)) {
	for i := range r.members {
		fn(i, &r.members[i])
	}
}

// Has reports whether any member satisfies every bit of t.
func (r *Row) Has(t measure.Type) bool {
	return r.Index(t) >= 0
}

// Index returns the index of the first member satisfying t, or -1.
func (r *Row) Index(t measure.Type) int {
	for i := range r.members {
		if r.members[i].Type.Is(t) {
			return i
		}
	}
	return -1
}

// Bottom returns the y coordinate of the bottom edge of the row.
func (r *Row) Bottom() float64 { return r.Y + r.height }

func (r *Row) recompute() {
	r.width, r.height = 0, r.minHeight
	for i := range r.members {
		m := &r.members[i]
		r.width += m.Width
		r.height = max(r.height, m.Height)
	}
	if n := len(r.members); n > 1 {
		r.width += float64(n-1) * r.spacing
	}
}
