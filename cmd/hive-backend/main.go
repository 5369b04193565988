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

	"github.com/thehive/hive-events/internal/backend"
	"github.com/thehive/hive-events/internal/config"
	"github.com/thehive/hive-events/internal/logger"
)

var (
	configPath = flag.String("config", "config.yaml", "Config file path")
	addr       = flag.String("addr", "", "Listen address (overrides config)")
	dbPath     = flag.String("db", "", "SQLite database path (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Server.DBPath = *dbPath
	}
	if err := cfg.ValidateServer(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.LevelInfo, os.Stdout)
	logger.SetDefault(log)

	store, err := backend.Open(cfg.Server.DBPath)
	if err != nil {
		log.Error("Failed to open database", logger.Fields{"path": cfg.Server.DBPath}, err)
		os.Exit(1)
	}
	defer store.Close()

	handler := backend.NewHandler(store, cfg.Server.APIKey, log)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Backend listening", logger.Fields{"addr": cfg.Server.Addr, "db": cfg.Server.DBPath})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Shutdown failed", nil, err)
		}
		log.Info("Backend stopped", nil)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", nil, err)
			os.Exit(1)
		}
	}
}
