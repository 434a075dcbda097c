package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/HendryAvila/Nexus/internal/config"
	"github.com/HendryAvila/Nexus/internal/logging"
	"github.com/HendryAvila/Nexus/internal/metrics"
	nexusserver "github.com/HendryAvila/Nexus/internal/server"
)

func newServeCmd(gf *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Start the Nexus MCP server on stdio transport.

Logs go to stderr. With --metrics-addr set, Prometheus metrics and a
health check are served over HTTP at /metrics and /healthz.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, gf, map[string]string{
				config.KeyMetricsAddr: "metrics-addr",
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9464 (default: off)")
	return cmd
}

// runServe runs the stdio server, plus the metrics endpoint when
// configured, until stdin closes or ctx is cancelled.
func runServe(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) error {
	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Development: cfg.LogDevelopment})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	m := metrics.New()
	s, cleanup, err := nexusserver.New(cfg, logger, m)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Stdin closing ends the session and takes the metrics server with it.
		defer cancel()
		stdio := server.NewStdioServer(s)
		stdio.SetErrorLogger(zap.NewStdLog(logger.Named("stdio")))
		err := stdio.Listen(gctx, in, out)
		if err == nil || errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("stdio transport: %w", err)
	})

	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return m.Serve(gctx, cfg.MetricsAddr, logger.Named("metrics"))
		})
	}

	err = g.Wait()
	logger.Info("nexus server stopped", zap.Error(err))
	return err
}
