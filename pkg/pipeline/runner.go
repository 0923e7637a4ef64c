package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blockrender/pkg/cache"
	errs "github.com/matzehuels/blockrender/pkg/errors"
	"github.com/matzehuels/blockrender/pkg/observability"
	"github.com/matzehuels/blockrender/pkg/render/block/constants"
	"github.com/matzehuels/blockrender/pkg/render/block/layout"
	"github.com/matzehuels/blockrender/pkg/workspace"
)

// Cache key kinds reported to the cache hooks.
const (
	keyKindLayout   = "layout"
	keyKindArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the layout → render pipeline on ws with caching.
func (r *Runner) Execute(ctx context.Context, ws *workspace.Workspace, opts Options) (*Result, error) {
	if ws == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no workspace to render")
	}
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Stats: Stats{StackCount: len(ws.Blocks), BlockCount: ws.BlockCount()},
	}
	result.BlockHash, _ = cache.HashJSON(ws.Blocks)

	layoutStart := time.Now()
	ls, layoutHit, err := r.LayoutWithCacheInfo(ctx, ws, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layouts = ls
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Info("computed layout",
		"stacks", result.Stats.StackCount,
		"blocks", len(ls),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, ls, ws, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo lays out ws with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, ws *workspace.Workspace, opts Options) ([]*layout.Layout, bool, error) {
	if ws == nil {
		return nil, false, errs.New(errs.ErrCodeInvalidInput, "no workspace to lay out")
	}
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	c, err := opts.Constants()
	if err != nil {
		return nil, false, err
	}

	blockHash, err := cache.HashJSON(ws.Blocks)
	if err != nil {
		return nil, false, fmt.Errorf("hash blocks: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(blockHash, opts.LayoutKeyOpts(c))
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if ls, err := layout.Unmarshal(data); err == nil {
				hooks.OnCacheHit(ctx, keyKindLayout)
				return ls, true, nil
			}
			// Undecodable entries fall through to recompute.
		}
		hooks.OnCacheMiss(ctx, keyKindLayout)
	}

	ls, err := ComputeLayouts(ctx, c, ws, opts.Origin)
	if err != nil {
		return nil, false, err
	}

	if data, err := layout.Marshal(ls); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			opts.Logger.Warn("cache write failed", "kind", keyKindLayout, "err", err)
		} else {
			hooks.OnCacheSet(ctx, keyKindLayout, len(data))
		}
	}
	return ls, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, ws *workspace.Workspace, opts Options) ([]*layout.Layout, error) {
	ls, _, err := r.LayoutWithCacheInfo(ctx, ws, opts)
	return ls, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info. The hit flag is set only when every format came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, ls []*layout.Layout, ws *workspace.Workspace, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	c, err := opts.Constants()
	if err != nil {
		return nil, false, err
	}

	inputHash, err := renderHash(ls, ws, c)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	hooks := observability.Cache()

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				hooks.OnCacheMiss(ctx, keyKindArtifact)
				break
			}
			hooks.OnCacheHit(ctx, keyKindArtifact)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := Render(ctx, ls, ws, c, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "kind", keyKindArtifact, "format", format, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, keyKindArtifact, len(data))
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, ls []*layout.Layout, ws *workspace.Workspace, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, ls, ws, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// renderHash covers everything an artifact is drawn from: the layouts, the
// block structure and variables for DOT output, and the constants for
// notch and tab shapes.
func renderHash(ls []*layout.Layout, ws *workspace.Workspace, c *constants.Set) (string, error) {
	in := struct {
		Layouts   []*layout.Layout     `json:"layouts"`
		Workspace *workspace.Workspace `json:"workspace,omitempty"`
		Constants constants.Table      `json:"constants"`
	}{ls, ws, c.Table()}
	return cache.HashJSON(in)
}
