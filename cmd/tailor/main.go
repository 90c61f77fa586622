package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tailor/internal/advisor"
	"tailor/internal/api"
	"tailor/internal/config"
	"tailor/internal/engine"
	"tailor/internal/store"
	"tailor/internal/typeset"
)

var (
	rootCmd = &cobra.Command{
		Use:   "tailor",
		Short: "AI-assisted LaTeX resume tailoring service",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zapCfg := zap.NewProductionConfig()
			if verbose {
				zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = zapCfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	logger     *zap.Logger
	verbose    bool
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
}

// initStore builds the session store named by the config.
func initStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Session.Store {
	case "memory":
		return store.NewMemoryStore(cfg.SessionTTL()), nil
	case "sqlite":
		return store.NewSQLiteStore(cfg.Session.DBPath, cfg.SessionTTL())
	default:
		return nil, fmt.Errorf("unsupported session store: %s", cfg.Session.Store)
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.AI.APIKey == "" {
			logger.Warn("AI API key not configured, question generation will fall back to the built-in set")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := initStore(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize session store: %w", err)
		}
		defer st.Close()

		adv, err := advisor.New(ctx, advisor.Options{
			Provider: cfg.AI.Provider,
			APIKey:   cfg.AI.APIKey,
			Model:    cfg.AI.Model,
			BaseURL:  cfg.AI.BaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to create advisor: %w", err)
		}

		eng := engine.New(st, adv, logger)
		compiler := typeset.NewCompiler(cfg.Typeset.Binary, cfg.TypesetTimeout())
		srv := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: api.NewServer(eng, compiler, logger).Handler(),
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render [tex-file]",
	Short: "Compile a LaTeX file to PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		source, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read tex file: %w", err)
		}

		compiler := typeset.NewCompiler(cfg.Typeset.Binary, cfg.TypesetTimeout())
		pdf, err := compiler.Compile(cmd.Context(), string(source))
		if err != nil {
			var cerr *typeset.CompileError
			if errors.As(err, &cerr) && cerr.Log != "" {
				fmt.Fprintln(os.Stderr, cerr.Log)
			}
			return fmt.Errorf("compilation failed: %w", err)
		}

		outPath := outputPath(args[0])
		if err := os.WriteFile(outPath, pdf, 0o644); err != nil {
			return fmt.Errorf("failed to write pdf: %w", err)
		}
		fmt.Printf("Wrote %s\n", outPath)
		return nil
	},
}

func outputPath(texPath string) string {
	const ext = ".tex"
	if len(texPath) > len(ext) && texPath[len(texPath)-len(ext):] == ext {
		return texPath[:len(texPath)-len(ext)] + ".pdf"
	}
	return texPath + ".pdf"
}
