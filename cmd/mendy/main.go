// Command mendy is a medical phrase translator and hospital preparation assistant.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kapu/mendy-translator-go/internal/app"
	"github.com/kapu/mendy-translator-go/internal/config"
	"github.com/kapu/mendy-translator-go/internal/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
)

type rootOptions struct {
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "mendy",
		Short: "Medical phrase translator and hospital preparation assistant",
		Long: `mendy translates hospital phrases for patients who do not speak English
and explains what kind of care to seek for a symptom.

Run "mendy serve" to start the HTTP API, or use the translate and advise
commands for one-off requests from the terminal.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(opts),
		newTranslateCmd(opts),
		newAdviseCmd(opts),
		newLanguagesCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mendy version %s (%s)\n", version, commit)
		},
	}
}

// bootstrap loads configuration, creates the logger and assembles services.
// defaultLevel applies when neither --log-level nor LOG_LEVEL is set.
func bootstrap(opts *rootOptions, defaultLevel string) (*app.Container, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	switch {
	case opts.logLevel != "":
		cfg.Logging.Level = opts.logLevel
	case os.Getenv("LOG_LEVEL") == "" && defaultLevel != "":
		cfg.Logging.Level = defaultLevel
	}

	logger, err := util.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	buildCtx, buildCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer buildCancel()
	container, err := app.Build(buildCtx, cfg, logger)
	if err != nil {
		logger.Error("Failed to assemble application services", zap.Error(err))
		_ = logger.Sync()
		return nil, nil, err
	}
	return container, logger, nil
}

func runServe(opts *rootOptions) error {
	container, logger, err := bootstrap(opts, "")
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Mendy starting...",
		zap.String("version", version),
		zap.String("log_level", container.Config.Logging.Level),
	)

	srv, err := container.NewServer(version)
	if err != nil {
		logger.Error("Failed to initialize server", zap.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", zap.Error(err))
			return err
		}
		return nil
	}

	logger.Info("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), container.Config.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
		return err
	}

	logger.Info("Shutdown complete")
	return nil
}
