package styles

import "bytes"

// Style defines the visual appearance of rendered blocks.
type Style interface {
	// RenderDefs writes SVG <defs> content and shared CSS.
	RenderDefs(buf *bytes.Buffer)
	// RenderBlock writes the outline of a single block.
	RenderBlock(buf *bytes.Buffer, b Block)
	// RenderText writes one field's text.
	RenderText(buf *bytes.Buffer, t Text)
	// RenderMarker writes a connection point marker.
	RenderMarker(buf *bytes.Buffer, m Marker)
}

// Block contains everything needed to draw one block outline.
type Block struct {
	ID   string // Block identifier
	Type string // Block type, used for colour lookup
	Path string // SVG path data in block coordinates
	X, Y float64

	// Holes are the empty inline input slots drawn on top of the outline,
	// in block coordinates.
	Holes []Rect
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Text is a field label placed in workspace coordinates. Y is the vertical
// centre of the text.
type Text struct {
	BlockID  string
	Field    string
	Text     string
	X, Y     float64
	W, H     float64
	Editable bool // draw the field background box
}

// Marker is a connection point in workspace coordinates.
type Marker struct {
	BlockID string
	Name    string
	X, Y    float64
}
