package sink

import (
	"encoding/json"

	"github.com/matzehuels/blockrender/pkg/render/block/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	renderer string
	theme    string
	indent   bool
}

// WithJSONRenderer records the name of the constants table the layouts were
// computed with.
func WithJSONRenderer(name string) JSONOption { return func(r *jsonRenderer) { r.renderer = name } }

// WithJSONTheme records the theme name for round-trip rendering.
func WithJSONTheme(name string) JSONOption { return func(r *jsonRenderer) { r.theme = name } }

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

type jsonOutput struct {
	Renderer string           `json:"renderer,omitempty"`
	Theme    string           `json:"theme,omitempty"`
	Bounds   jsonBounds       `json:"bounds"`
	Blocks   []*layout.Layout `json:"blocks"`
}

type jsonBounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RenderJSON exports layouts together with their bounding box.
func RenderJSON(ls []*layout.Layout, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	lo, hi := layout.Bounds(ls)
	out := jsonOutput{
		Renderer: r.renderer,
		Theme:    r.theme,
		Bounds:   jsonBounds{X: lo.X, Y: lo.Y, Width: hi.X - lo.X, Height: hi.Y - lo.Y},
		Blocks:   ls,
	}
	if out.Blocks == nil {
		out.Blocks = []*layout.Layout{}
	}
	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}
