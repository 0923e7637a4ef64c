package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/blockrender/pkg/observability"
	"github.com/matzehuels/blockrender/pkg/render/block/constants"
	"github.com/matzehuels/blockrender/pkg/render/block/layout"
	"github.com/matzehuels/blockrender/pkg/workspace"
)

// ComputeLayouts lays out every top-level stack of ws. A stack starts at its
// root block's workspace position shifted by origin. Layouts are returned in
// painting order: stacks in workspace order, each depth-first.
func ComputeLayouts(ctx context.Context, c *constants.Set, ws *workspace.Workspace, origin layout.Point) ([]*layout.Layout, error) {
	hooks := observability.Pipeline()

	var out []*layout.Layout
	for _, root := range ws.Blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hooks.OnLayoutStart(ctx, root.Type, root.Count())
		start := time.Now()

		at := origin.Add(layout.Point{X: root.X, Y: root.Y})
		ls, err := layout.ComputeTree(c, root, at)
		hooks.OnLayoutComplete(ctx, root.Type, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("stack %s: %w", root.Label(), err)
		}
		out = append(out, ls...)
	}
	return out, nil
}
