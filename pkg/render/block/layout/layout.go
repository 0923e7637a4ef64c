package layout

import (
	"github.com/matzehuels/blockrender/pkg/block"
	errs "github.com/matzehuels/blockrender/pkg/errors"
	"github.com/matzehuels/blockrender/pkg/render/block/constants"
	"github.com/matzehuels/blockrender/pkg/render/block/measure"
	"github.com/matzehuels/blockrender/pkg/render/block/row"
)

// Point is a position in block or workspace coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Row is the placed form of a row.
type Row struct {
	Y           float64              `json:"y"`
	Width       float64              `json:"width"`
	Height      float64              `json:"height"`
	Measurables []measure.Measurable `json:"measurables"`
}

// Layout is the result of laying out one block. All coordinates are
// relative to the block's top-left corner; Origin places the block on a
// workspace.
type Layout struct {
	BlockID string `json:"block_id,omitempty"`
	Type    string `json:"type"`

	Origin Point   `json:"origin"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Rows   []Row   `json:"rows"`

	// Connection points. Previous and Next are nil when the block lacks the
	// connection.
	Previous *Point           `json:"previous,omitempty"`
	Next     *Point           `json:"next,omitempty"`
	Inputs   map[string]Point `json:"inputs,omitempty"`
}

// Names of the block-level connections understood by Layout.Connection.
const (
	ConnPrevious = "previous"
	ConnNext     = "next"
)

// Connection returns the point of a named connection: "previous", "next",
// or an input name.
func (l *Layout) Connection(name string) (Point, bool) {
	switch {
	case name == ConnPrevious && l.Previous != nil:
		return *l.Previous, true
	case name == ConnNext && l.Next != nil:
		return *l.Next, true
	}
	p, ok := l.Inputs[name]
	return p, ok
}

// Measurables returns every placed measurable, row by row.
func (l *Layout) Measurables() []measure.Measurable {
	var out []measure.Measurable
	for _, r := range l.Rows {
		out = append(out, r.Measurables...)
	}
	return out
}

// Compute lays out b from scratch. The first pass groups b's inputs into
// rows of measurables and pads narrow rows; the second pass assigns offsets
// and derives connection points.
//
// Structural problems in b are contract violations: Compute returns an
// error with [errs.ErrCodeContractViolation] and no layout.
func Compute(c *constants.Set, b *block.Block) (*Layout, error) {
	if c == nil {
		return nil, errs.New(errs.ErrCodeConfiguration, "layout requires resolved constants")
	}
	if b == nil {
		return nil, errs.New(errs.ErrCodeContractViolation, "layout of nil block")
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	rows, err := buildRows(c, b)
	if err != nil {
		return nil, err
	}
	align(c, rows)
	return position(c, b, rows), nil
}

func buildRows(c *constants.Set, b *block.Block) ([]*row.Row, error) {
	var rows []*row.Row
	cur := row.New(c)
	content := false
	flush := func() {
		rows = append(rows, cur)
		cur = row.New(c)
		content = false
	}

	if b.HasPrevious {
		cur.Append(corner(c, b, measure.PositionLeft))
		cur.Append(measure.NewPreviousConnection(c))
	} else if b.Shape == block.ShapeRounded {
		cur.Append(measure.NewRoundCorner(c, measure.PositionLeft))
	}

	inputs := b.Inputs
	if b.Collapsed && len(inputs) > 0 {
		// Only the leading fields stay visible.
		inputs = []block.Input{{Name: inputs[0].Name, Kind: block.InputDummy, Fields: inputs[0].Fields}}
	}

	for _, in := range inputs {
		if in.Kind.IsStatement() && content {
			flush()
		}
		for _, f := range in.Fields {
			cur.Append(measure.NewField(c, f.Name, f.Text, measure.Size{Width: f.Width, Height: f.Height}))
			content = true
		}

		switch in.Kind {
		case block.InputValue:
			if b.Inline {
				cur.Append(measure.NewInlineInput(c, in.Name))
			} else {
				cur.Append(measure.NewExternalValueInput(c, in.Name))
			}
		case block.InputStatement, block.InputExternalStatement:
			cur.Append(measure.NewStatementInput(c, in.Name))
		case block.InputDummy:
		default:
			return nil, errs.New(errs.ErrCodeContractViolation, "%s: unknown input kind %q", b.Label(), in.Kind)
		}
		if in.Kind != block.InputDummy {
			content = true
		}

		if in.Kind.IsStatement() || !b.Inline {
			flush()
		}
	}
	if cur.Len() > 0 || len(rows) == 0 {
		rows = append(rows, cur)
	}

	last := rows[len(rows)-1]
	if b.Collapsed {
		last.Append(measure.NewJaggedEdge(c))
	}
	if b.HasNext {
		last.Append(measure.NewNextConnection(c))
		last.Append(corner(c, b, measure.PositionRight))
	} else if b.Shape == block.ShapeRounded {
		last.Append(measure.NewRoundCorner(c, measure.PositionRight))
	}
	return rows, nil
}

// corner returns the corner drawn beside a connection notch. Square corners
// only exist next to a notch; rounded blocks get their corners either way.
func corner(c *constants.Set, b *block.Block, pos measure.Position) measure.Measurable {
	if b.Shape == block.ShapeRounded {
		return measure.NewRoundCorner(c, pos)
	}
	return measure.NewSquareCorner(c, pos)
}

// align pads every row narrower than the widest one with a spacer so that
// the right edges line up. The spacer goes after the row's content and
// ahead of any jagged edge or closing notch and corner. Gaps no wider than
// the element spacing are left alone.
func align(c *constants.Set, rows []*row.Row) {
	if len(rows) < 2 {
		return
	}
	var widest float64
	for _, r := range rows {
		widest = max(widest, r.Width())
	}
	for _, r := range rows {
		if widest-r.Width() <= c.ElementSpacing {
			continue
		}
		spacer := measure.NewInRowSpacer(c)
		if r.Has(measure.ExternalValueInput) {
			spacer = measure.NewExternalSpacer(c)
		}
		i := closingStart(r)
		r.Insert(i, spacer)
		r.Resize(i, max(0, spacer.Width+widest-r.Width()))
	}
}

// closingStart returns the index of the trailing run of edge and closing
// measurables in r, or r.Len() when there is none.
func closingStart(r *row.Row) int {
	i := r.Len()
	for i > 0 {
		t := r.At(i - 1).Type
		if !t.Is(measure.JaggedEdge) && !t.Is(measure.NextConnection) && !t.Is(measure.Corner|measure.Right) {
			break
		}
		i--
	}
	return i
}

func position(c *constants.Set, b *block.Block, rows []*row.Row) *Layout {
	l := &Layout{
		BlockID: b.ID,
		Type:    b.Type,
	}

	var y, widest float64
	for _, r := range rows {
		r.Y = y
		x := c.LeftMargin
		r.Each(func(_ int, m *measure.Measurable) {
			m.Place(x, y)
			x += m.Width + c.ElementSpacing

			switch {
			case m.Type.Is(measure.PreviousConnection):
				l.Previous = &Point{m.X + c.ConnectionOffset, m.Y}
			case m.Type.Is(measure.NextConnection):
				l.Next = &Point{m.X + c.ConnectionOffset, r.Y + r.Height()}
			case m.Type.Is(measure.Input) && m.Name != "":
				if l.Inputs == nil {
					l.Inputs = make(map[string]Point)
				}
				l.Inputs[m.Name] = Point{m.X + c.ConnectionOffset, m.Y}
			}
		})

		l.Rows = append(l.Rows, Row{
			Y:           r.Y,
			Width:       r.Width(),
			Height:      r.Height(),
			Measurables: r.Measurables(),
		})
		widest = max(widest, r.Width())
		y += r.Height()
	}

	l.Width = widest + c.LeftMargin + c.RightMargin
	l.Height = y
	return l
}
