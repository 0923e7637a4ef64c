// Package styles defines how laid-out blocks are painted.
//
// A [Style] turns block outlines, field texts and connection markers into
// SVG fragments. [Theme] is the built-in implementation: a named colour
// scheme that fills each block according to its category, which is derived
// from the block type prefix ("math_number" is math, "controls_repeat" is a
// loop).
//
//	theme, err := styles.Lookup("zelos")
//	theme.Colour("logic_compare") // "#4c97ff"
package styles
