package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/helmcode/seo-ai/pkg/metrics"
	"github.com/helmcode/seo-ai/pkg/server"
)

const shutdownTimeout = 10 * time.Second

// sweepInterval checks for idle sessions a few times per idle period.
func sweepInterval(idle time.Duration) time.Duration {
	if idle <= 0 {
		idle = server.DefaultIdleTimeout
	}
	return max(idle/4, time.Second)
}

var (
	serveAddr        string
	serveIdleTimeout time.Duration
	serveMaxSessions int
	serveLLM         llmFlags
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [flags]",
		Short: "Serve the SEO audit dashboard over HTTP",
		Long: `Serve the interactive dashboard. Each browser gets its own session;
Prometheus metrics are exposed on /metrics.

Examples:
  # Listen on the configured address (default :8080)
  seo-ai serve

  # Turkish dashboard on a custom port without progress delays
  seo-ai serve --addr :9000 --language tr --step-delay 0s`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().DurationVar(&serveIdleTimeout, "session-idle-timeout", server.DefaultIdleTimeout, "Drop sessions idle for this long")
	cmd.Flags().IntVar(&serveMaxSessions, "max-sessions", server.DefaultMaxSessions, "Maximum live sessions; the least recently used is dropped beyond it")
	serveLLM.register(cmd)

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(serveLLM)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	logger, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.New()
	a, backend, err := newAnalyzer(ctx, cfg, logger, collector)
	if err != nil {
		return err
	}

	dash := server.New(server.Options{
		Analyzer:    a,
		Locale:      cfg.Locale(),
		StepDelay:   cfg.Analysis.StepDelay,
		IdleTimeout: serveIdleTimeout,
		MaxSessions: serveMaxSessions,
		Logger:      logger,
		Metrics:     collector,
	})
	defer dash.Close()

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           dash.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(os.Stderr, "🌐 SEO AI dashboard on %s\n", cfg.Server.Addr)
	printLLMInfo(cfg.LLM.Provider, backend)
	logger.Info("Starting dashboard server",
		zap.String("addr", cfg.Server.Addr),
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", backend.GetModel()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("dashboard server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		dash.RunSweeper(gctx, sweepInterval(serveIdleTimeout))
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down dashboard server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	printSuccess("Dashboard stopped")
	return nil
}
