package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/helmcode/cricshot/pkg/web"
)

const shutdownTimeout = 10 * time.Second

var (
	serveAddr     string
	serveOrigins  []string
	serveProvider string
	serveModel    string
	serveVerbose  bool
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the interactive shot visualizer in the browser",
		Long: `Start the web UI. Pick a bowler, line and length, press "Analyze Shot"
and watch the recommended shot animate across the field.

Environment:
  CRICSHOT_ADDR             listen address (default :8080)
  CRICSHOT_ALLOWED_ORIGINS  comma separated origins allowed to call /api and /ws
  LLM_PROVIDER              gemini (default), claude or openai
  GEMINI_API_KEY / API_KEY, ANTHROPIC_API_KEY, OPENAI_API_KEY

Examples:
  # Serve on the default port with Gemini
  GEMINI_API_KEY=... cricshot serve

  # Use Claude on another port
  cricshot serve --provider claude --addr :9090`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", envOr("CRICSHOT_ADDR", ":8080"), "Listen address")
	cmd.Flags().StringSliceVar(&serveOrigins, "allowed-origins",
		strings.Split(envOr("CRICSHOT_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"), ","),
		"Origins allowed to call the API")
	cmd.Flags().StringVar(&serveProvider, "provider", "", providerHelp())
	cmd.Flags().StringVar(&serveModel, "model", "", "LLM model to use (overrides default)")
	cmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Debug logging")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(serveVerbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	adv, err := newAdvisor(serveProvider, serveModel)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	srv := web.NewServer(adv, logger, web.Options{AllowedOrigins: serveOrigins})
	httpServer := &http.Server{
		Addr:              serveAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// An analysis blocks the request for up to the LLM timeout.
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	httpServer.RegisterOnShutdown(srv.Shutdown)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server",
			zap.String("addr", serveAddr),
			zap.String("model", adv.Model()),
			zap.Strings("allowed_origins", serveOrigins))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", serveAddr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
