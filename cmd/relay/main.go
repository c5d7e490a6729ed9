package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fpt/relay/internal/config"
	"github.com/fpt/relay/internal/gateway"
	"github.com/fpt/relay/pkg/catalog"
	"github.com/fpt/relay/pkg/client"
	"github.com/fpt/relay/pkg/dedup"
	pkgLogger "github.com/fpt/relay/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to settings file (default: .relay/settings.json, $HOME/.relay/settings.json)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	flag.Parse()

	settings, err := config.LoadSettings(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		settings.Log.Level = *logLevel
	}

	// Initialize logger
	out := os.Stdout
	pkgLogger.SetGlobalLoggerWithConsoleWriter(pkgLogger.LogLevel(settings.Log.Level), out)
	logger := pkgLogger.NewLoggerWithConsoleWriter(pkgLogger.LogLevel(settings.Log.Level), out)

	if err := config.ValidateSettings(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid settings: %v\n", err)
		os.Exit(1)
	}

	completer, err := client.NewCompleter(settings.Backend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create backend client: %v\n", err)
		os.Exit(1)
	}

	cache, err := dedup.New(dedup.Config{
		Enabled:  settings.Cache.Enabled,
		Capacity: settings.Cache.MaxSize,
		TTL:      time.Duration(settings.Cache.TTLSeconds) * time.Second,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create request cache: %v\n", err)
		os.Exit(1)
	}

	models := catalog.New()

	// Handle shutdown signals
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	models.Refresh(ctx)

	fmt.Println("relay gateway starting...")
	fmt.Printf("  Listen: %s\n", settings.Server.Addr)
	fmt.Printf("  Backend: %s (%s)\n", settings.Backend.Backend, settings.Backend.Model)
	if settings.Cache.Enabled {
		fmt.Printf("  Cache: %d entries, %ds TTL\n", settings.Cache.MaxSize, settings.Cache.TTLSeconds)
	}
	fmt.Println()

	srv := gateway.NewServer(settings, completer, cache, models, logger)
	if err := srv.Run(ctx); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "Gateway error: %v\n", err)
		os.Exit(1)
	}
}
