package styles

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	errs "github.com/matzehuels/blockrender/pkg/errors"
)

// Theme names.
const (
	ThemeClassic = "classic"
	ThemeZelos   = "zelos"

	DefaultTheme = ThemeClassic
)

// Block categories, derived from the block type prefix.
const (
	CategoryColour     = "colour"
	CategoryLists      = "lists"
	CategoryLogic      = "logic"
	CategoryLoops      = "loops"
	CategoryMath       = "math"
	CategoryProcedures = "procedures"
	CategoryText       = "text"
	CategoryVariables  = "variables"
)

// Theme is a named colour scheme. It implements [Style] with flat fills.
type Theme struct {
	Name        string
	FontFamily  string
	FontSize    float64
	StrokeWidth float64

	Text     string // field text colour
	Field    string // editable field background
	Marker   string // connection marker colour
	Fallback string // colour of blocks outside every category

	// Categories maps a category name to its fill colour.
	Categories map[string]string
}

var themes = map[string]func() Theme{
	ThemeClassic: Classic,
	ThemeZelos:   Zelos,
}

// Classic returns the default theme.
func Classic() Theme {
	return Theme{
		Name:        ThemeClassic,
		FontFamily:  "sans-serif",
		FontSize:    11,
		StrokeWidth: 1,
		Text:        "#ffffff",
		Field:       "#ffffff",
		Marker:      "#ff3333",
		Fallback:    "#888888",
		Categories: map[string]string{
			CategoryColour:     "#a5745b",
			CategoryLists:      "#745ba5",
			CategoryLogic:      "#5b80a5",
			CategoryLoops:      "#5ba55b",
			CategoryMath:       "#5b67a5",
			CategoryProcedures: "#995ba5",
			CategoryText:       "#5ba58c",
			CategoryVariables:  "#a55b99",
		},
	}
}

// Zelos returns the brighter theme paired with the zelos renderer.
func Zelos() Theme {
	return Theme{
		Name:        ThemeZelos,
		FontFamily:  `"Helvetica Neue", Helvetica, sans-serif`,
		FontSize:    12,
		StrokeWidth: 1,
		Text:        "#ffffff",
		Field:       "#ffffff",
		Marker:      "#ffbf00",
		Fallback:    "#9e9e9e",
		Categories: map[string]string{
			CategoryColour:     "#cf63cf",
			CategoryLists:      "#ff661a",
			CategoryLogic:      "#4c97ff",
			CategoryLoops:      "#ffab19",
			CategoryMath:       "#59c059",
			CategoryProcedures: "#ff6680",
			CategoryText:       "#9966ff",
			CategoryVariables:  "#ff8c1a",
		},
	}
}

// Lookup returns the theme registered under name.
func Lookup(name string) (Theme, error) {
	fn, ok := themes[strings.ToLower(name)]
	if !ok {
		return Theme{}, errs.New(errs.ErrCodeInvalidStyle, "unknown theme %q (available: %s)",
			name, strings.Join(Themes(), ", "))
	}
	return fn(), nil
}

// Themes returns the sorted names of the built-in themes.
func Themes() []string {
	return slices.Sorted(maps.Keys(themes))
}

// Category returns the category of a block type, taken from the prefix
// before the first underscore. Conditionals count as logic, other
// controls as loops.
func Category(blockType string) string {
	prefix, _, _ := strings.Cut(blockType, "_")
	switch {
	case strings.HasPrefix(blockType, "controls_if"):
		return CategoryLogic
	case prefix == "controls":
		return CategoryLoops
	case prefix == "variables" || prefix == "vars":
		return CategoryVariables
	}
	return prefix
}

// Colour returns the fill colour for blockType.
func (t Theme) Colour(blockType string) string {
	if c, ok := t.Categories[Category(blockType)]; ok {
		return c
	}
	return t.Fallback
}

func (t Theme) RenderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>\n    .block-text { font-family: %s; font-size: %.1fpx; fill: %s; dominant-baseline: central; }\n",
		EscapeXML(t.FontFamily), t.FontSize, t.Text)
	fmt.Fprintf(buf, "    .block-field { fill: %s; fill-opacity: 0.3; }\n", t.Field)
	buf.WriteString("  </style>\n")
}

func (t Theme) RenderBlock(buf *bytes.Buffer, b Block) {
	fill := t.Colour(b.Type)
	stroke := Shade(fill, 0.7)
	fmt.Fprintf(buf, `  <g id="block-%s" class="block" data-type="%s" transform="translate(%.2f,%.2f)">`+"\n",
		EscapeXML(b.ID), EscapeXML(b.Type), b.X, b.Y)
	fmt.Fprintf(buf, `    <path d="%s" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		b.Path, fill, stroke, t.StrokeWidth)
	for _, h := range b.Holes {
		fmt.Fprintf(buf, `    <rect class="block-hole" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
			h.X, h.Y, h.W, h.H, Shade(fill, 1.3), stroke, t.StrokeWidth)
	}
	buf.WriteString("  </g>\n")
}

func (t Theme) RenderText(buf *bytes.Buffer, x Text) {
	if x.Editable {
		fmt.Fprintf(buf, `  <rect class="block-field" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="4"/>`+"\n",
			x.X, x.Y-x.H/2, x.W, x.H)
	}
	fmt.Fprintf(buf, `  <text class="block-text" x="%.2f" y="%.2f" data-block="%s">%s</text>`+"\n",
		x.X+2, x.Y, EscapeXML(x.BlockID), EscapeXML(x.Text))
}

func (t Theme) RenderMarker(buf *bytes.Buffer, m Marker) {
	fmt.Fprintf(buf, `  <circle class="connection" cx="%.2f" cy="%.2f" r="3" fill="%s" data-block="%s" data-name="%s"/>`+"\n",
		m.X, m.Y, t.Marker, EscapeXML(m.BlockID), EscapeXML(m.Name))
}

// Shade scales each channel of a #rrggbb colour by f, clamping at white.
// Malformed colours are returned unchanged.
func Shade(hex string, f float64) string {
	if len(hex) != 7 || hex[0] != '#' {
		return hex
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return hex
	}
	ch := func(shift uint) uint64 {
		c := float64((v >> shift) & 0xff)
		return uint64(min(255, c*f))
	}
	return fmt.Sprintf("#%02x%02x%02x", ch(16), ch(8), ch(0))
}

var _ Style = Theme{}
