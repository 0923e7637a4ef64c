package measure

// Measurable is a single visual primitive occupying space in a row: a
// corner, a connection notch, an input or field placeholder, a spacer or a
// jagged edge. Width and Height are fixed by the constructor; only spacers
// may be resized afterwards. X and Y are absolute offsets inside the block
// and are meaningful only once Placed is true.
type Measurable struct {
	Type   Type    `json:"kind"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Placed bool    `json:"placed,omitempty"`

	// Name ties input placeholders and fields back to the block structure.
	// It is empty for shape primitives.
	Name string `json:"name,omitempty"`
	// Text is the field's display text, if any.
	Text string `json:"text,omitempty"`
}

// Size returns the intrinsic dimensions of m.
func (m *Measurable) Size() Size {
	return Size{Width: m.Width, Height: m.Height}
}

// Place records the absolute position of m.
func (m *Measurable) Place(x, y float64) {
	m.X, m.Y = x, y
	m.Placed = true
}

// Resize changes the width of a spacer. It reports false, leaving m
// untouched, for any other variant or a negative width.
func (m *Measurable) Resize(width float64) bool {
	if !m.Type.Is(Spacer) || width < 0 {
		return false
	}
	m.Width = width
	return true
}

// Right returns the x coordinate of the right edge of m.
func (m *Measurable) Right() float64 { return m.X + m.Width }

// Bottom returns the y coordinate of the bottom edge of m.
func (m *Measurable) Bottom() float64 { return m.Y + m.Height }

// Size is a width and height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SizeEqual reports whether a and b have equal widths and heights. Two nil
// sizes are equal; a nil and a non-nil size are not.
func SizeEqual(a, b *Size) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Width == b.Width && a.Height == b.Height
}
