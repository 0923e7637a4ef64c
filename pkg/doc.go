// Package pkg provides the core libraries for blockrender, a layout engine
// for visual programming blocks.
//
// # Overview
//
// A block-based editor draws every block as a shape built from rows of
// measurable elements: corners, notches, fields, input sockets and spacers.
// blockrender computes those shapes from a logical block description and a
// renderer's constants, then draws them. The pkg directory is organized as:
//
//  1. [block], [workspace] - the logical model: blocks, inputs, fields, variables
//  2. [render/block] - the layout engine: constants, measurables, rows, layout
//  3. [serialization] - priority-ordered save and load of workspace state
//  4. [pipeline] - orchestration (load → layout → render) with caching
//  5. [storage], [cache] - persistence of workspace state and computed output
//
// # Architecture
//
//	block file / saved state
//	         ↓
//	    [serialization] (restore workspace in priority order)
//	         ↓
//	    [render/block/layout] (measure, build rows, size and place)
//	         ↓
//	    [render/block/sink] (SVG, JSON) → [render] (PDF, PNG)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/blockrender/pkg/block"
//	    "github.com/matzehuels/blockrender/pkg/render/block/constants"
//	    "github.com/matzehuels/blockrender/pkg/render/block/layout"
//	    "github.com/matzehuels/blockrender/pkg/render/block/sink"
//	)
//
//	b, _ := block.ReadFile("program.yaml")
//	c := constants.MustResolve(constants.Geras())
//	ls, _ := layout.ComputeTree(c, b, layout.Point{})
//	svg := sink.RenderSVG(ls)
//
// # Main Packages
//
// [render/block/constants] - Named renderer constants (geras, zelos) and TOML
// constants files layered over a built-in base.
//
// [render/block/measure] - The measurable catalog: element kinds as type
// bits and their intrinsic sizes.
//
// [render/block/row] - Rows of measurables and their aggregate dimensions.
//
// [render/block/layout] - The two-pass aggregator: build rows from a block,
// then size, align and place every element.
//
// [render/block/styles], [render/block/sink] - Colour themes and output
// formats.
//
// [render/nodelink] - The block connection tree as a Graphviz diagram.
//
// [observability] - Hooks for pipeline, serialization, cache and HTTP
// events, with no-op defaults.
//
// [errors] - Coded errors shared by every package.
//
// [block]: https://pkg.go.dev/github.com/matzehuels/blockrender/pkg/block
// [workspace]: https://pkg.go.dev/github.com/matzehuels/blockrender/pkg/workspace
// [render/block]: https://pkg.go.dev/github.com/matzehuels/blockrender/pkg/render/block
// [render/block/constants]: https://pkg.go.dev/github.com/matzehuels/blockrender/pkg/render/block/constants
// [render/block/measure]: https://pkg.go.dev/github.com/matzehuels/blockrender/pkg/render/block/measure
// [render/block/row]: https://pkg.go.dev/github.com/matzehuels/blockrender/pkg/render/block/row
// [render/block/layout]: https://pkg.go.dev/github.com/matzehuels/blockrender/pkg/render/block/layout
// [render/block/styles]: https://pkg.go.dev/github.com/matzehuels/blockrender/pkg/render/block/styles
// [render/block/sink]: https://pkg.go.dev/github.com/matzehuels/blockrender/pkg/render/block/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/blockrender/pkg/render/nodelink
// [render]: https://pkg.go.dev/github.com/matzehuels/blockrender/pkg/render
// [serialization]: https://pkg.go.dev/github.com/matzehuels/blockrender/pkg/serialization
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/blockrender/pkg/pipeline
// [storage]: https://pkg.go.dev/github.com/matzehuels/blockrender/pkg/storage
// [cache]: https://pkg.go.dev/github.com/matzehuels/blockrender/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/blockrender/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/blockrender/pkg/errors
package pkg
