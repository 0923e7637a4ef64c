package sink

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/blockrender/pkg/render/block/constants"
	"github.com/matzehuels/blockrender/pkg/render/block/layout"
	"github.com/matzehuels/blockrender/pkg/render/block/measure"
	"github.com/matzehuels/blockrender/pkg/render/block/styles"
)

const blockInteractionCSS = `
    .block path { transition: stroke-width 0.2s ease; }
    .block:hover path { stroke-width: 2; }
    .connection { pointer-events: none; }`

// DefaultPadding surrounds the rendered blocks.
const DefaultPadding = 8.0

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style       styles.Style
	constants   *constants.Set
	connections bool
	padding     float64
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithConnections() SVGOption         { return func(r *svgRenderer) { r.connections = true } }
func WithPadding(p float64) SVGOption    { return func(r *svgRenderer) { r.padding = max(0, p) } }

// WithConstants sets the constants used for notch and tab shapes. They
// should be the ones the layouts were computed with.
func WithConstants(c *constants.Set) SVGOption {
	return func(r *svgRenderer) {
		if c != nil {
			r.constants = c
		}
	}
}

// RenderSVG paints layouts, as returned by [layout.ComputeTree], in order:
// parents first so that children cover the input slots they plug into.
func RenderSVG(ls []*layout.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	lo, hi := layout.Bounds(ls)
	hi.Y += r.constants.NotchHeight
	x0, y0 := lo.X-r.padding, lo.Y-r.padding
	w, h := hi.X-lo.X+2*r.padding, hi.Y-lo.Y+2*r.padding

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		x0, y0, w, h, w, h)
	r.style.RenderDefs(&buf)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", blockInteractionCSS)

	for _, l := range ls {
		path, holes := outline(r.constants, l)
		r.style.RenderBlock(&buf, styles.Block{
			ID:    l.BlockID,
			Type:  l.Type,
			Path:  path,
			X:     l.Origin.X,
			Y:     l.Origin.Y,
			Holes: holes,
		})
	}
	for _, l := range ls {
		for _, t := range buildTexts(l) {
			r.style.RenderText(&buf, t)
		}
	}
	if r.connections {
		for _, l := range ls {
			for _, m := range buildMarkers(l) {
				r.style.RenderMarker(&buf, m)
			}
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		style:     styles.Classic(),
		constants: constants.MustResolve(constants.Geras()),
		padding:   DefaultPadding,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// buildTexts places every field label, vertically centred in its row.
// Named fields are editable and get a background box.
func buildTexts(l *layout.Layout) []styles.Text {
	var out []styles.Text
	for _, r := range l.Rows {
		for _, m := range r.Measurables {
			if !m.Type.Is(measure.Field) || m.Text == "" {
				continue
			}
			out = append(out, styles.Text{
				BlockID:  l.BlockID,
				Field:    m.Name,
				Text:     m.Text,
				X:        l.Origin.X + m.X,
				Y:        l.Origin.Y + r.Y + r.Height/2,
				W:        m.Width,
				H:        m.Height,
				Editable: m.Name != "",
			})
		}
	}
	return out
}

func buildMarkers(l *layout.Layout) []styles.Marker {
	var out []styles.Marker
	add := func(name string, p layout.Point) {
		abs := l.Origin.Add(p)
		out = append(out, styles.Marker{BlockID: l.BlockID, Name: name, X: abs.X, Y: abs.Y})
	}
	if l.Previous != nil {
		add(layout.ConnPrevious, *l.Previous)
	}
	if l.Next != nil {
		add(layout.ConnNext, *l.Next)
	}
	start := len(out)
	for name, p := range l.Inputs {
		add(name, p)
	}
	slices.SortFunc(out[start:], func(a, b styles.Marker) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}
