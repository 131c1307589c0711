package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/smilesdraw/pkg/observability"
	"github.com/matzehuels/smilesdraw/pkg/observability/metrics"
	"github.com/matzehuels/smilesdraw/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering API",
		Example: `  smilesdraw serve --addr :8080
  curl 'localhost:8080/v1/render?smiles=c1ccccc1&format=svg'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.cfg.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			var handler http.Handler
			if cfg.MetricsEnabled && !noMetrics {
				m := metrics.New(metrics.Config{EnableProcessMetrics: true, EnableGoMetrics: true})
				observability.SetPipelineHooks(m)
				observability.SetCacheHooks(m)
				observability.SetHTTPHooks(m)
				defer observability.Reset()
				handler = m.Handler()
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			lo := c.cfg.Layout
			srv := server.New(runner, server.Options{
				Config:  cfg,
				Render:  c.cfg.Render,
				Layout:  &lo,
				Metrics: handler,
				Logger:  c.Logger,
			})

			printInfo("Listening on %s", StyleLink.Render("http://"+displayAddr(cfg.Addr)))
			if handler != nil {
				printDetail("metrics at /metrics")
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", c.cfg.Server.Addr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the cache")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")
	return cmd
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
