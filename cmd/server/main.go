// Package main - Entry point for the break-even analysis server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"breakeven/api"
	"breakeven/core/engine"
	"breakeven/internal/config"
	"breakeven/internal/logging"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "config file (.json, .yaml or .toml)")
	addr := flag.String("addr", "", "server address (default from config)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	log := logging.Named("api")
	engineConfig, err := cfg.Engine()
	if err != nil {
		log.Fatal("invalid engine configuration", zap.Error(err))
	}
	server := api.NewServer(version, engine.New(engineConfig), log,
		api.Options{MaxProducts: cfg.Server.MaxProducts})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("break-even analysis server starting", zap.String("addr", cfg.Server.Addr), zap.String("version", version))
	if err := server.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
