package sink

import (
	"github.com/matzehuels/blockrender/pkg/render"
	"github.com/matzehuels/blockrender/pkg/render/block/layout"
)

// RenderPDF renders layouts as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ls []*layout.Layout, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(RenderSVG(ls, opts...))
}

// RenderPNG renders layouts as PNG via SVG conversion at the given scale.
// Requires librsvg.
func RenderPNG(ls []*layout.Layout, scale float64, opts ...SVGOption) ([]byte, error) {
	if scale <= 0 {
		scale = 2
	}
	return render.ToPNG(RenderSVG(ls, opts...), scale)
}
