// Package cli implements the blockrender command-line interface.
//
// # Commands
//
//   - layout: compute block layouts and write them as JSON
//   - render: draw blocks as SVG, PNG, PDF, JSON or DOT
//   - tree: draw the block connection tree with Graphviz
//   - state: save, load, clear and list stored workspaces
//   - browse: pick a block interactively and inspect its layout
//   - constants: print renderer constants as TOML
//   - serve: run the HTTP API
//   - cache: manage the layout and artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// lives on the [CLI] value and is handed to the pipeline runner.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockrender/pkg/buildinfo"
	"github.com/matzehuels/blockrender/pkg/cache"
	"github.com/matzehuels/blockrender/pkg/pipeline"
	"github.com/matzehuels/blockrender/pkg/serialization"
	"github.com/matzehuels/blockrender/pkg/storage"
)

// appName is the application name used for directories and display.
const appName = "blockrender"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Persistent flags.
	renderer  string
	constants string
	theme     string
	store     storage.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		renderer: pipeline.DefaultRenderer,
		theme:    pipeline.DefaultTheme,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Blockrender lays out and draws visual programming blocks",
		Long:         `Blockrender measures editor blocks the way a block-based editor does and draws them as SVG, PNG, PDF or JSON. It also stores workspace state in files, bbolt, Redis or MongoDB.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.renderer, "renderer", c.renderer, "renderer constants: geras, zelos")
	pf.StringVar(&c.constants, "constants", "", "TOML constants file (overrides --renderer)")
	pf.StringVar(&c.theme, "theme", c.theme, "colour theme: classic, zelos")
	c.storageFlags(root)

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.stateCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.constantsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) storageFlags(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.StringVar((*string)(&c.store.Kind), "store", string(storage.KindFile), "workspace store: file, bolt, redis, mongo")
	pf.StringVar(&c.store.Dir, "store-dir", "", "file store directory")
	pf.StringVar(&c.store.Path, "store-path", "", "bolt database file")
	pf.StringVar(&c.store.RedisAddr, "redis-addr", "localhost:6379", "redis address")
	pf.StringVar(&c.store.MongoURI, "mongo-uri", "mongodb://localhost:27017", "mongodb connection URI")
	pf.StringVar(&c.store.MongoDatabase, "mongo-db", appName, "mongodb database")
	pf.StringVar(&c.store.Prefix, "store-prefix", "", "redis key prefix or mongo collection")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) openStore(ctx context.Context) (storage.Store, error) {
	return storage.Open(ctx, c.store)
}

func (c *CLI) newRegistry() *serialization.Registry {
	return serialization.NewDefaultRegistry(serialization.WithLogger(c.Logger))
}

// cacheDir returns the cache directory using XDG standard (~/.cache/blockrender/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// pipelineOptions returns options carrying the persistent flags.
func (c *CLI) pipelineOptions() pipeline.Options {
	opts := pipeline.Options{
		Renderer:      c.renderer,
		ConstantsPath: c.constants,
		Theme:         c.theme,
		Logger:        c.Logger,
	}
	opts.SetDefaults()
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// basePath derives the output path stem. An output with a known format
// extension loses it; an empty output falls back to the input stem.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns os.Stdout for "-" or an empty path, else creates path.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
