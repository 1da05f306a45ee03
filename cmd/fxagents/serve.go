package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/newthinker/fxagents/internal/agent"
	"github.com/newthinker/fxagents/internal/api"
	"github.com/newthinker/fxagents/internal/api/upload"
	"github.com/newthinker/fxagents/internal/llm/factory"
	"github.com/newthinker/fxagents/internal/logger"
	"github.com/newthinker/fxagents/internal/market"
	"github.com/newthinker/fxagents/internal/metrics"
	"github.com/newthinker/fxagents/internal/storage/archive"
	"github.com/newthinker/fxagents/internal/trace"
	"github.com/newthinker/fxagents/internal/trades"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the fxagents web server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	development := debug || cfg.Server.Mode == "debug"
	log, err := logger.NewWithFile(development, logger.FileConfig{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()
	if cfgFile == "" {
		log.Warn("no config file specified, using defaults")
	}

	if err := trace.Init(trace.Config{
		Enabled: cfg.Tracing.Enabled,
		Pretty:  cfg.Tracing.Pretty,
		Version: Version,
	}); err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
	}

	col, err := newCollector(cfg.Market)
	if err != nil {
		return fmt.Errorf("market collector: %w", err)
	}
	provider := market.NewProvider(col, log, market.WithMetrics(reg))

	model, err := factory.New(cfg.LLM)
	if err != nil {
		return fmt.Errorf("llm provider: %w", err)
	}
	if model == nil {
		log.Info("no llm provider configured, market analysis disabled")
	}

	archiver, err := archive.New(cfg.Upload.Archive)
	if err != nil {
		return fmt.Errorf("upload archive: %w", err)
	}

	store := trades.NewStore()
	uploads := upload.NewService(store, log,
		upload.WithArchive(archiver),
		upload.WithMetrics(reg),
		upload.WithMaxBytes(int64(cfg.Server.MaxUploadMB)<<20),
	)

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	server, err := api.NewServer(api.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		APIKey:       cfg.Server.APIKey,
		TemplatesDir: cfg.Server.TemplatesDir,
		MetricsPath:  metricsPath,
	}, api.Dependencies{
		Agent:   agent.New(provider, model, log, reg),
		Uploads: uploads,
		Metrics: reg,
	}, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	log.Info("starting fxagents server",
		zap.String("addr", server.Addr()),
		zap.String("market", col.Name()),
		zap.String("archive", archiver.Kind()),
		zap.Bool("tracing", trace.Enabled()),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for shutdown signal or a failed listener
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			log.Error("server error", zap.Error(err))
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	return trace.Shutdown(ctx)
}
