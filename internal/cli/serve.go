package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/critpath/internal/metrics"
	"github.com/matzehuels/critpath/internal/server"
	"github.com/matzehuels/critpath/pkg/observability"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	noCache   bool
	noMetrics bool
}

// serveCommand creates the command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

  POST /v1/schedule  task file in, schedule JSON out
  POST /v1/render    task file in, network diagram out
  GET  /healthz      liveness
  GET  /metrics      Prometheus metrics

The request body may be JSON, YAML, TOML or HCL, selected by Content-Type.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the diagram cache")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}

// runServe serves until ctx is cancelled, then drains in-flight requests.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	runner, err := c.newServerRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	sc := c.Config.Server
	cfg := server.Config{
		Addr:           sc.Addr,
		ReadTimeout:    sc.ReadTimeout,
		RequestTimeout: sc.RequestTimeout,
		MaxBodyBytes:   sc.MaxBodyBytes,
		Defaults:       c.Config.PipelineOptions(),
	}
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}
	if !opts.noMetrics {
		reg, m := metrics.NewRegistry()
		metrics.Install(m)
		defer observability.Reset()
		cfg.Metrics = metrics.HandlerFor(reg, promhttp.HandlerOpts{ErrorLog: c.Logger.StandardLog()})
	}

	srv := server.New(runner, c.Logger, cfg)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down", "addr", cfg.Addr)
	if err := srv.Shutdown(context.Background()); err != nil {
		return err
	}
	c.Logger.Info("server stopped")
	return nil
}
