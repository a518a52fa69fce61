package main

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/aretw0/textkit/internal/cli"
	"github.com/aretw0/textkit/internal/config"
	httpAdapter "github.com/aretw0/textkit/pkg/adapters/http"
	"github.com/aretw0/textkit/pkg/observability"
	"github.com/aretw0/textkit/pkg/runner"
	"github.com/spf13/cobra"
)

// retireDelay keeps a replaced stack open while requests started on it finish.
const retireDelay = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves POST /v1/transform, POST /v1/batch, GET /v1/rules, GET /healthz
and GET /metrics. With --watch the engine is rebuilt whenever the
configuration file changes, without dropping connections.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}
		logger := newLogger(cmd, cfg)
		metrics := observability.NewMetrics(nil)

		buildOpts := func(c *config.Config) cli.BuildOptions {
			return cli.BuildOptions{
				Logger:      logger,
				Metrics:     metrics,
				Interceptor: runner.DenyRules(c.Server.DenyRules...),
			}
		}

		stack, err := cli.Build(cfg, buildOpts(cfg))
		if err != nil {
			return err
		}
		current := stack
		var mu sync.Mutex
		defer func() {
			mu.Lock()
			defer mu.Unlock()
			_ = current.Close()
		}()

		api := httpAdapter.NewServer(backendOf(stack),
			httpAdapter.WithMetrics(metrics),
			httpAdapter.WithMaxInputSize(cfg.MaxInputSize),
			httpAdapter.WithLogger(logger),
		)

		ctx := cmd.Context()
		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.DefaultFile
			}
			go func() {
				err := config.Watch(ctx, path, 250*time.Millisecond, logger, func(next *config.Config) {
					ns, err := cli.Build(next, buildOpts(next))
					if err != nil {
						logger.Error("rebuild failed, keeping current engine", "err", err)
						return
					}
					api.Swap(backendOf(ns))

					mu.Lock()
					old := current
					current = ns
					mu.Unlock()
					time.AfterFunc(retireDelay, func() { _ = old.Close() })
				})
				if err != nil {
					logger.Error("config watch stopped", "err", err)
				}
			}()
		}

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           api.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("textkit API listening", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
			logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			return nil
		}
	},
}

func backendOf(s *cli.Stack) httpAdapter.Backend {
	return httpAdapter.Backend{Transformer: s.Runner, Catalog: s.Engine}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on (overrides server.addr)")
	serveCmd.Flags().Bool("watch", false, "Rebuild the engine when the configuration file changes")
}
