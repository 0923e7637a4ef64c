package row

import (
	"testing"

	"github.com/matzehuels/blockrender/pkg/render/block/constants"
	"github.com/matzehuels/blockrender/pkg/render/block/measure"
)

func geras(t *testing.T) *constants.Set {
	t.Helper()
	c, err := constants.Resolve(constants.Geras())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestEmptyRow(t *testing.T) {
	c := geras(t)
	r := New(c)
	if r.Width() != 0 {
		t.Errorf("Width() = %v, want 0", r.Width())
	}
	if r.Height() != c.MinRowHeight {
		t.Errorf("Height() = %v, want MIN_ROW_HEIGHT %v", r.Height(), c.MinRowHeight)
	}
}

func TestRowDimensions(t *testing.T) {
	c := geras(t)
	tests := []struct {
		name    string
		members []measure.Measurable
	}{
		{"single small", []measure.Measurable{measure.NewField(c, "F", "", measure.Size{})}},
		{"single tall", []measure.Measurable{measure.NewField(c, "F", "", measure.Size{Width: 30, Height: 50})}},
		{"mixed", []measure.Measurable{
			measure.NewSquareCorner(c, measure.PositionLeft),
			measure.NewPreviousConnection(c),
			measure.NewField(c, "F", "", measure.Size{Width: 40}),
			measure.NewStatementInput(c, "DO"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(c)
			var wantW, maxH float64
			for _, m := range tt.members {
				r.Append(m)
				wantW += m.Width
				maxH = max(maxH, m.Height)
			}
			wantW += float64(len(tt.members)-1) * c.ElementSpacing
			wantH := max(c.MinRowHeight, maxH)

			if r.Width() != wantW {
				t.Errorf("Width() = %v, want %v", r.Width(), wantW)
			}
			if r.Height() != wantH {
				t.Errorf("Height() = %v, want %v", r.Height(), wantH)
			}
			if r.Len() != len(tt.members) {
				t.Errorf("Len() = %d, want %d", r.Len(), len(tt.members))
			}
		})
	}
}

func TestRowNeverStale(t *testing.T) {
	c := geras(t)
	r := New(c)

	r.Append(measure.NewField(c, "A", "", measure.Size{Width: 20}))
	w1, h1 := r.Width(), r.Height()
	if w2, h2 := r.Width(), r.Height(); w1 != w2 || h1 != h2 {
		t.Fatalf("getters not idempotent: %v,%v then %v,%v", w1, h1, w2, h2)
	}

	r.Append(measure.NewField(c, "B", "", measure.Size{Width: 30, Height: 60}))
	if r.Width() != 20+30+c.ElementSpacing {
		t.Errorf("Width() after append = %v", r.Width())
	}
	if r.Height() != 60 {
		t.Errorf("Height() after append = %v, want 60", r.Height())
	}
}

func TestRowResize(t *testing.T) {
	c := geras(t)
	r := New(c)
	r.Append(measure.NewField(c, "A", "", measure.Size{Width: 20}))
	r.Append(measure.NewInRowSpacer(c))

	if !r.Resize(1, 50) {
		t.Fatal("Resize(spacer) = false")
	}
	if want := 20 + 50 + c.ElementSpacing; r.Width() != want {
		t.Errorf("Width() after resize = %v, want %v", r.Width(), want)
	}
	if r.Resize(0, 50) {
		t.Error("Resize(field) should fail")
	}
	if r.Resize(5, 50) || r.Resize(-1, 50) {
		t.Error("Resize out of range should fail")
	}
}

func TestRowQueries(t *testing.T) {
	c := geras(t)
	r := New(c)
	r.Append(measure.NewSquareCorner(c, measure.PositionLeft))
	r.Append(measure.NewPreviousConnection(c))

	if !r.Has(measure.PreviousConnection) {
		t.Error("Has(PreviousConnection) = false")
	}
	if r.Has(measure.NextConnection) {
		t.Error("Has(NextConnection) = true")
	}
	if got := r.Index(measure.Connection); got != 1 {
		t.Errorf("Index(Connection) = %d, want 1", got)
	}

	ms := r.Measurables()
	ms[0].Width = 1000
	if r.At(0).Width == 1000 {
		t.Error("Measurables() must return a copy")
	}
}
