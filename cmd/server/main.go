package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dgnsrekt/deribit-gex/internal/cache"
	"github.com/dgnsrekt/deribit-gex/internal/config"
	"github.com/dgnsrekt/deribit-gex/internal/deribit"
	"github.com/dgnsrekt/deribit-gex/internal/gex"
	"github.com/dgnsrekt/deribit-gex/internal/server"
	"github.com/dgnsrekt/deribit-gex/internal/ws"
)

func main() {
	os.Exit(run())
}

func run() int {
	var cfgFile string
	flag.StringVar(&cfgFile, "config", os.Getenv("GEX_CONFIG"), "config file path (or set GEX_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	logger, err := setupLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.String("port", cfg.Server.Port),
		zap.String("baseURL", cfg.Deribit.BaseURL),
		zap.Strings("symbols", cfg.Symbols),
		zap.Int("concurrency", cfg.Batch.Concurrency),
		zap.Duration("batchDelay", cfg.BatchDelay()),
		zap.Duration("cacheTTL", cfg.CacheTTL()),
		zap.Bool("wsEnabled", cfg.WS.Enabled),
	)

	client := deribit.NewClient(
		cfg.Deribit.BaseURL,
		cfg.Deribit.RatePerSecond,
		time.Duration(cfg.Deribit.TimeoutSec)*time.Second,
		logger,
	)

	store := cache.New[*gex.Result]()
	service := gex.NewService(client, store, gex.Options{
		Concurrency: cfg.Batch.Concurrency,
		BatchDelay:  cfg.BatchDelay(),
		TTL:         cfg.CacheTTL(),
	}, logger)

	srv := server.NewServer(service, cfg, logger)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// WebSocket components (optional)
	var hub *ws.Hub
	if cfg.WS.Enabled {
		hub = ws.NewHub(cfg.AllowedSymbol, logger)
		go hub.Run(ctx)

		streamer := ws.NewStreamer(hub, service, cfg.StreamInterval(), logger)
		go streamer.Run(ctx)

		logger.Info("WebSocket enabled", zap.Duration("streamInterval", cfg.StreamInterval()))
	}

	router := server.NewRouter(srv, hub, logger)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Cancel context to stop WebSocket components
	cancel()

	// Graceful HTTP server shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return 1
	}

	logger.Info("server stopped")
	return 0
}

func setupLogger(levelStr string) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.DisableStacktrace = true

	if levelStr != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(levelStr)); err == nil {
			zapConfig.Level = zap.NewAtomicLevelAt(level)
		}
	}

	return zapConfig.Build()
}
