package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/descope-sample-apps/crewai-app/internal/agent"
	"github.com/descope-sample-apps/crewai-app/internal/config"
	"github.com/descope-sample-apps/crewai-app/internal/descope"
	"github.com/descope-sample-apps/crewai-app/internal/dispatch"
	"github.com/descope-sample-apps/crewai-app/internal/instrumentation"
	"github.com/descope-sample-apps/crewai-app/internal/logging"
	"github.com/descope-sample-apps/crewai-app/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr     string
		mode     string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP backend",
		Long: `Start the HTTP backend serving the crew API.

Configuration comes from the environment; flags override it:
  DESCOPE_PROJECT_ID   Descope project id (required)
  DESCOPE_CLIENT_ID    expected session-token audience (optional)
  DESCOPE_BASE_URL     Descope API base URL (default https://api.descope.com)
  GEMINI_API_KEY       Gemini API key for the task engine
  GEMINI_MODEL         Gemini model name (default gemini-2.0-flash)
  EXECUTION_MODE       "crew" (one pipeline) or "split" (isolated tasks)
  ADDR                 listen address (default :5001)
  LOG_LEVEL            debug, info, warn, or error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("mode") {
				cfg.Mode = mode
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "HTTP listen address. Can also use ADDR env var.")
	cmd.Flags().StringVar(&mode, "mode", config.ModeSplit, `Execution mode: "crew" or "split". Can also use EXECUTION_MODE env var.`)
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error. Can also use LOG_LEVEL env var.")

	return cmd
}

func runServe(cfg *config.Config) error {
	logger := logging.Setup(logging.ParseLevel(cfg.LogLevel))

	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrConfig := instrumentation.ConfigFromEnv()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	validator, err := descope.NewValidator(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create session validator: %w", err)
	}
	broker := descope.NewBroker(cfg, logger, provider.Metrics())

	llm, err := agent.NewGeminiLLM(shutdownCtx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return fmt.Errorf("failed to create gemini client: %w", err)
	}

	dispatcher := dispatch.New(cfg, llm, broker, logger, provider.Metrics())
	srv := server.New(cfg, validator, dispatcher, logger, provider)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := srv.Start(); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-shutdownCtx.Done():
		logger.Info("shutdown signal received, draining requests")
		drainCtx, cancelDrain := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancelDrain()
		if err := srv.Shutdown(drainCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}
