// Package pipeline provides the load → layout → render pipeline shared by
// the CLI and the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read a block file or a saved workspace state into a workspace
//  2. Layout: compute the layouts of every top-level block stack
//  3. Render: generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
// Layouts and artifacts are cached by content hash.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	ws, err := pipeline.LoadFile("program.yaml", registry)
//	result, err := runner.Execute(ctx, ws, pipeline.Options{
//	    Renderer: "zelos",
//	    Formats:  []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blockrender/pkg/cache"
	errs "github.com/matzehuels/blockrender/pkg/errors"
	"github.com/matzehuels/blockrender/pkg/render/block/constants"
	"github.com/matzehuels/blockrender/pkg/render/block/layout"
	"github.com/matzehuels/blockrender/pkg/render/block/sink"
	"github.com/matzehuels/blockrender/pkg/render/block/styles"
)

// Defaults shared by the CLI and the server.
const (
	DefaultRenderer = constants.DefaultRenderer
	DefaultTheme    = styles.DefaultTheme
	DefaultPadding  = sink.DefaultPadding
	DefaultScale    = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Renderer      string       `json:"renderer,omitempty"`
	ConstantsPath string       `json:"-"` // TOML file; overrides Renderer
	Origin        layout.Point `json:"origin,omitempty"`

	// Render options
	Formats         []string `json:"formats,omitempty"`
	Theme           string   `json:"theme,omitempty"`
	ShowConnections bool     `json:"show_connections,omitempty"`
	Padding         float64  `json:"padding,omitempty"`
	Detailed        bool     `json:"detailed,omitempty"` // DOT: field values and variables
	Scale           float64  `json:"scale,omitempty"`    // PNG scale factor
	Refresh         bool     `json:"refresh,omitempty"`  // bypass cache reads

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layouts holds the block layouts in painting order.
	Layouts []*layout.Layout

	// BlockHash is the content hash of the workspace blocks.
	BlockHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	StackCount int
	BlockCount int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layouts came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(Formats(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Formats returns the sorted supported formats.
func Formats() []string {
	out := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// ValidateRenderer checks that a renderer names a built-in constants table.
func ValidateRenderer(name string) error {
	if _, ok := constants.Builtin(name); !ok {
		return errs.New(errs.ErrCodeConfiguration, "invalid renderer: %q (must be one of: %s)",
			name, strings.Join(constants.Renderers(), ", "))
	}
	return nil
}

// ValidateTheme checks that a theme is known.
func ValidateTheme(name string) error {
	_, err := styles.Lookup(name)
	return err
}

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Renderer == "" {
		o.Renderer = DefaultRenderer
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks every option.
func (o *Options) Validate() error {
	o.SetDefaults()
	if o.ConstantsPath == "" {
		if err := ValidateRenderer(o.Renderer); err != nil {
			return err
		}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateTheme(o.Theme); err != nil {
		return err
	}
	if o.Padding < 0 || o.Scale < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "padding and scale must not be negative")
	}
	return nil
}

// Constants resolves the constants the options select.
func (o *Options) Constants() (*constants.Set, error) {
	return constants.Select(o.Renderer, o.ConstantsPath)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(c *constants.Set) cache.LayoutKeyOpts {
	h, _ := cache.HashJSON(c.Table())
	return cache.LayoutKeyOpts{
		Renderer:      o.Renderer,
		ConstantsHash: h,
		OriginX:       o.Origin.X,
		OriginY:       o.Origin.Y,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:          format,
		Theme:           o.Theme,
		ShowConnections: o.ShowConnections,
		Padding:         o.Padding,
	}
	switch format {
	case FormatPNG:
		opts.Format = fmt.Sprintf("%s@%.2f", format, o.Scale)
	case FormatDOT:
		if o.Detailed {
			opts.Format = format + "+detailed"
		}
	}
	return opts
}
