package sink

import (
	"fmt"
	"strings"

	"github.com/matzehuels/blockrender/pkg/render/block/constants"
	"github.com/matzehuels/blockrender/pkg/render/block/layout"
	"github.com/matzehuels/blockrender/pkg/render/block/measure"
	"github.com/matzehuels/blockrender/pkg/render/block/styles"
)

type pathBuilder struct {
	sb strings.Builder
}

func (p *pathBuilder) cmd(op string, xy ...float64) {
	if p.sb.Len() > 0 {
		p.sb.WriteByte(' ')
	}
	p.sb.WriteString(op)
	for i, v := range xy {
		if i > 0 {
			p.sb.WriteByte(',')
		}
		fmt.Fprintf(&p.sb, "%.2f", v)
	}
}

func (p *pathBuilder) moveTo(x, y float64) { p.cmd("M", x, y) }
func (p *pathBuilder) lineTo(x, y float64) { p.cmd("L", x, y) }
func (p *pathBuilder) close()              { p.cmd("Z") }

// arcTo draws a clockwise quarter circle of radius r ending at (x, y).
func (p *pathBuilder) arcTo(r, x, y float64) {
	if p.sb.Len() > 0 {
		p.sb.WriteByte(' ')
	}
	fmt.Fprintf(&p.sb, "A%.2f,%.2f 0 0 1 %.2f,%.2f", r, r, x, y)
}

// notch draws a trapezoid reaching dy below the horizontal line y, centred
// on cx. dir is +1 when the outline runs rightwards and -1 when it runs
// leftwards.
func (p *pathBuilder) notch(c *constants.Set, cx, y, dy float64, dir float64) {
	half, quarter := c.NotchWidth/2, c.NotchWidth/4
	p.lineTo(cx-dir*half, y)
	p.lineTo(cx-dir*quarter, y+dy)
	p.lineTo(cx+dir*quarter, y+dy)
	p.lineTo(cx+dir*half, y)
}

// outline traces the clockwise outline of l in block coordinates and
// returns it with the empty inline input slots.
func outline(c *constants.Set, l *layout.Layout) (string, []styles.Rect) {
	var p pathBuilder
	w, h := l.Width, l.Height

	var radius float64
	if rounded(l) {
		radius = min(c.CornerRadius, h/2, w/2)
	}

	p.moveTo(0, radius)
	if radius > 0 {
		p.arcTo(radius, radius, 0)
	}
	if l.Previous != nil {
		p.notch(c, l.Previous.X, 0, c.NotchHeight, 1)
	}
	p.lineTo(w, 0)

	var holes []styles.Rect
	for _, r := range l.Rows {
		top, bottom := r.Y, r.Y+r.Height
		for _, m := range r.Measurables {
			switch {
			case m.Type.Is(measure.StatementInput):
				p.lineTo(w, top)
				p.notch(c, m.X+c.ConnectionOffset, top, c.NotchHeight, -1)
				p.lineTo(m.X, top)
				p.lineTo(m.X, bottom)
				p.lineTo(w, bottom)
			case m.Type.Is(measure.ExternalValueInput):
				// The edge steps in to the connection point so the tab sits
				// where the child block attaches.
				cx := m.X + c.ConnectionOffset
				ty := top + c.TabOffsetFromTop
				p.lineTo(w, top)
				p.lineTo(cx, top)
				p.lineTo(cx, ty)
				p.lineTo(cx-c.TabWidth, ty+c.TabHeight/2)
				p.lineTo(cx, ty+c.TabHeight)
				p.lineTo(cx, bottom)
				p.lineTo(w, bottom)
			case m.Type.Is(measure.JaggedEdge):
				jagged(&p, c, w, top, bottom)
			case m.Type.Is(measure.InlineInput):
				holes = append(holes, styles.Rect{
					X: m.X,
					Y: top + (r.Height-m.Height)/2,
					W: m.Width,
					H: m.Height,
				})
			}
		}
	}

	p.lineTo(w, h)
	if l.Next != nil {
		p.notch(c, l.Next.X, h, c.NotchHeight, -1)
	}
	if radius > 0 {
		p.lineTo(radius, h)
		p.arcTo(radius, 0, h-radius)
	} else {
		p.lineTo(0, h)
	}
	p.close()
	return p.sb.String(), holes
}

func jagged(p *pathBuilder, c *constants.Set, x, top, bottom float64) {
	tooth := c.JaggedTeethHeight
	p.lineTo(x, top)
	if tooth <= 0 {
		return
	}
	for y := top; y+tooth <= bottom; y += tooth {
		p.lineTo(x+c.JaggedTeethWidth, y+tooth/2)
		p.lineTo(x, y+tooth)
	}
}

func rounded(l *layout.Layout) bool {
	for _, r := range l.Rows {
		for _, m := range r.Measurables {
			if m.Type.Is(measure.Corner | measure.Round) {
				return true
			}
		}
	}
	return false
}
