package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockrender/internal/server"
	"github.com/matzehuels/blockrender/pkg/cache"
	"github.com/matzehuels/blockrender/pkg/pipeline"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		redisCache string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and workspace HTTP API",
		Long: `Serve the layout and workspace HTTP API.

Workspaces are kept in the store selected with --store. Layouts and
artifacts are cached on disk, or in Redis with --cache-redis so several
instances can share them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisCache, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&redisCache, "cache-redis", "", "redis address for the shared cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, redisCache string, noCache bool) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	var cc cache.Cache
	switch {
	case redisCache != "" && !noCache:
		rc, err := cache.DialRedisCache(ctx, redisCache, appName+":")
		if err != nil {
			return fmt.Errorf("connect cache: %w", err)
		}
		cc = rc
	default:
		if cc, err = newCache(noCache); err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
	}
	runner := pipeline.NewRunner(cc, nil, c.Logger)
	defer runner.Close()

	srv, err := server.New(server.Config{
		Addr:     addr,
		Store:    st,
		Runner:   runner,
		Logger:   c.Logger,
		Registry: c.newRegistry,
	})
	if err != nil {
		return err
	}
	c.Logger.Info("serving", "addr", addr, "store", c.store.Kind, "renderer", c.renderer)
	return srv.ListenAndServe(ctx)
}
