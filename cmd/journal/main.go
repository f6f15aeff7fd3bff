package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"trading-journal/internal/analytics"
	"trading-journal/internal/logger"
	"trading-journal/internal/suggest"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "journal",
		Short:         "Trading journal with pattern analytics and AI suggestions",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeSystem()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = logger.Shutdown(ctx)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newExtractCmd())
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx, *configPath)
			if err != nil {
				return err
			}
			srv, err := initializeServer(ctx, cfg)
			if err != nil {
				return err
			}

			server := &http.Server{
				Addr:              cfg.Addr(),
				Handler:           srv.R,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				logger.Info(ctx, "Server starting", "addr", server.Addr, "provider", cfg.LLM.Provider)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			sigc := make(chan os.Signal, 1)
			signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errc:
				return err
			case <-sigc:
			}

			logger.Info(ctx, "Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			logger.Info(ctx, "Server exited")
			return nil
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <trades.json>",
		Short: "Print the pattern report for a file of trades",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trades, err := readTrades(args[0])
			if err != nil {
				return err
			}
			rep, err := analytics.Compute(trades)
			if err != nil {
				return err
			}
			pf, err := analytics.ComputeProfitFactor(trades)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"patterns":      rep,
				"profit_factor": pf,
				"suggestions":   suggest.FromPatterns(rep),
			})
		},
	}
}

func newExtractCmd() *cobra.Command {
	var fallback bool
	cmd := &cobra.Command{
		Use:   "extract <response.txt>",
		Short: "Parse Title/Description blocks from generated text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var opts []suggest.Option
			if fallback {
				opts = append(opts, suggest.WithNoInsightFallback())
			}
			return printJSON(cmd.OutOrStdout(), suggest.Extract(string(b), opts...))
		},
	}
	cmd.Flags().BoolVar(&fallback, "fallback", false, "emit the no-insight record for unstructured text")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
