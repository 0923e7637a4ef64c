package layout

import (
	"encoding/json"

	"github.com/matzehuels/blockrender/pkg/block"
	errs "github.com/matzehuels/blockrender/pkg/errors"
	"github.com/matzehuels/blockrender/pkg/render/block/constants"
)

// ComputeTree lays out b together with every block connected to it and
// places them relative to origin, the top-left corner of b. Children are
// anchored so that their previous connection (or top-left corner, for
// value blocks) lands on the parent's input point; next blocks hang from
// the next connection. Layouts are returned in depth-first order: a block,
// its input children, then its next block.
func ComputeTree(c *constants.Set, b *block.Block, origin Point) ([]*Layout, error) {
	var out []*Layout
	if err := layoutStack(c, b, origin, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func layoutStack(c *constants.Set, b *block.Block, at Point, topLeft bool, out *[]*Layout) error {
	for blk := b; blk != nil; blk = blk.Next {
		l, err := Compute(c, blk)
		if err != nil {
			return err
		}
		l.Origin = at
		if !topLeft {
			l.Origin = at.Sub(l.anchor())
		}
		*out = append(*out, l)

		for _, in := range blk.Inputs {
			if in.Child == nil {
				continue
			}
			p, ok := l.Inputs[in.Name]
			if !ok {
				// Collapsed blocks hide their inputs and everything in them.
				continue
			}
			if err := layoutStack(c, in.Child, l.Origin.Add(p), false, out); err != nil {
				return err
			}
		}

		if l.Next != nil {
			at = l.Origin.Add(*l.Next)
		}
		topLeft = false
	}
	return nil
}

func (l *Layout) anchor() Point {
	if l.Previous != nil {
		return *l.Previous
	}
	return Point{}
}

// Bounds returns the top-left and bottom-right corners enclosing every
// layout in ls, in workspace coordinates.
func Bounds(ls []*Layout) (Point, Point) {
	if len(ls) == 0 {
		return Point{}, Point{}
	}
	lo := ls[0].Origin
	hi := lo.Add(Point{ls[0].Width, ls[0].Height})
	for _, l := range ls[1:] {
		lo.X = min(lo.X, l.Origin.X)
		lo.Y = min(lo.Y, l.Origin.Y)
		hi.X = max(hi.X, l.Origin.X+l.Width)
		hi.Y = max(hi.Y, l.Origin.Y+l.Height)
	}
	return lo, hi
}

// Marshal encodes layouts as a JSON array.
func Marshal(ls []*Layout) ([]byte, error) {
	return json.Marshal(ls)
}

// Unmarshal decodes layouts produced by Marshal.
func Unmarshal(data []byte) ([]*Layout, error) {
	var ls []*Layout
	if err := json.Unmarshal(data, &ls); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode layout")
	}
	return ls, nil
}
