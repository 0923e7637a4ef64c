// Package constants supplies the rendering constants of the block layout
// engine.
//
// Every dimension the measurable catalog and the layout aggregator use
// (paddings, corner radii, notch and tab sizes, the minimum row height,
// connection offsets) is looked up by name through a [Provider]. Providers
// are pure data: a [Table] literal, one of the built-in renderer tables
// ([Geras], [Zelos]) or a TOML file read with [Load].
//
// [Resolve] checks a provider once and returns a typed [Set]. A missing
// constant is a configuration error and is reported before any layout runs,
// which is why measurable construction itself can never fail.
//
// # TOML files
//
//	base = "geras"
//
//	[constants]
//	NOTCH_WIDTH = 18
//	CORNER_RADIUS = 4
package constants
