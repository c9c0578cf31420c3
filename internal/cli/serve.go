package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/stackplan/stackplan/internal/api"
	"github.com/stackplan/stackplan/pkg/cache"
	"github.com/stackplan/stackplan/pkg/pipeline"
	"github.com/stackplan/stackplan/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr          string
		redisAddr     string
		redisPassword string
		redisDB       int
		mongoURI      string
		mongoDB       string
		noCache       bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

The service exposes composition and validation endpoints plus catalog
introspection. Designs are kept in memory unless a MongoDB URI is
configured; the result cache uses Redis when an address is given and
the local file cache otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cch, err := c.serveCache(ctx, noCache, redisAddr, redisPassword, redisDB)
			if err != nil {
				return fmt.Errorf("initialize cache: %w", err)
			}

			st, err := c.serveStore(ctx, mongoURI, mongoDB)
			if err != nil {
				return fmt.Errorf("initialize store: %w", err)
			}
			defer func() { _ = st.Close(context.Background()) }()

			runner := pipeline.NewRunner(cch, nil, c.Logger)
			defer runner.Close()

			server := &http.Server{
				Addr:              addr,
				Handler:           api.NewServer(runner, st, c.Logger).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				c.Logger.Info("serving", "addr", addr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				c.Logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for the shared cache (host:port)")
	cmd.Flags().StringVar(&redisPassword, "redis-password", "", "redis password")
	cmd.Flags().IntVar(&redisDB, "redis-db", 0, "redis database number")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "mongodb URI for design persistence")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", appName, "mongodb database name")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) serveCache(ctx context.Context, noCache bool, redisAddr, redisPassword string, redisDB int) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		c.Logger.Info("using redis cache", "addr", redisAddr)
		return cache.NewRedisCache(ctx, redisAddr, redisPassword, redisDB)
	}
	return newCache(false)
}

func (c *CLI) serveStore(ctx context.Context, mongoURI, mongoDB string) (store.Store, error) {
	if mongoURI != "" {
		c.Logger.Info("using mongodb store", "db", mongoDB)
		return store.NewMongoStore(ctx, mongoURI, mongoDB)
	}
	return store.NewMemoryStore(), nil
}
