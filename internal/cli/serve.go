package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deckbuild/internal/server"
	"github.com/matzehuels/deckbuild/pkg/cache"
	"github.com/matzehuels/deckbuild/pkg/pipeline"
)

// serveOptions holds the flags for the serve command.
type serveOptions struct {
	addr        string
	redisAddr   string
	redisPass   string
	redisDB     int
	redisPrefix string
	noCache     bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the deck API over HTTP",
		Long: `Serve the deck pipeline over HTTP.

Built decks and artifacts are cached in Redis when --redis is set, and in
the local file cache otherwise.`,
		Example: `  deckbuild serve --addr :8080
  deckbuild serve --redis localhost:6379 --redis-prefix decks:`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cc, err := c.serveCache(cmd, opts)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(cc, nil, logger)
			defer runner.Close()

			printInfo("Serving the deck API on %s", StyleLink.Render(listenURL(opts.addr)))
			return server.New(runner, logger).ListenAndServe(ctx, opts.addr)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "Redis address for the shared cache")
	cmd.Flags().StringVar(&opts.redisPass, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().StringVar(&opts.redisPrefix, "redis-prefix", "deckbuild:", "key prefix in Redis")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) serveCache(cmd *cobra.Command, opts serveOptions) (cache.Cache, error) {
	if opts.redisAddr == "" || opts.noCache {
		return newCache(opts.noCache)
	}
	rc, err := cache.NewRedisCache(cmd.Context(), cache.RedisOptions{
		Addr:     opts.redisAddr,
		Password: opts.redisPass,
		DB:       opts.redisDB,
		Prefix:   opts.redisPrefix,
	})
	if err != nil {
		return nil, err
	}
	loggerFromContext(cmd.Context()).Info("using redis cache", "addr", opts.redisAddr)
	return rc, nil
}

// listenURL turns a listen address into a browsable URL.
func listenURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
