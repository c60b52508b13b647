package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ai-rio/lgpd-sentinel/internal/audit"
	"github.com/ai-rio/lgpd-sentinel/internal/config"
	"github.com/ai-rio/lgpd-sentinel/internal/logger"
)

func main() {
	var (
		configPath = flag.String("config", "", "Configuration file path")
		since      = flag.Duration("since", 24*time.Hour, "Export events recorded in the last duration")
		outputDir  = flag.String("output", "", "Output directory (overrides config)")
		showStats  = flag.Bool("stats", false, "Show audit trail statistics and exit")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting LGPD-Sentinel audit export",
		zap.String("version", "0.1.0"),
		zap.Duration("since", *since))

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, cancelling operations...")
		cancel()
	}()

	// Connect to the audit store
	store, err := audit.NewStore(&audit.StoreConfig{
		DatabaseURL: cfg.Audit.DatabaseURL,
	}, log.WithComponent("audit").Logger)
	if err != nil {
		log.Fatal("Failed to connect to audit store", zap.Error(err))
	}
	defer store.Close()

	if *showStats {
		stats, err := store.Stats(ctx)
		if err != nil {
			log.Fatal("Failed to load audit stats", zap.Error(err))
		}
		fmt.Printf("Total events:     %d\n", stats.TotalEvents)
		fmt.Printf("Non-compliant:    %d\n", stats.NonCompliant)
		fmt.Printf("Avg confidence:   %.3f\n", stats.AvgConfidence)
		fmt.Printf("Total instances:  %d\n", stats.TotalInstances)
		fmt.Printf("Distinct users:   %d\n", stats.DistinctUserIDs)
		return
	}

	dir := cfg.Audit.ExportDir
	if *outputDir != "" {
		dir = *outputDir
	}

	exporter := audit.NewExporter(store, dir, log.WithComponent("export").Logger)

	path, err := exporter.Export(ctx, time.Now().Add(-*since))
	if err != nil {
		log.Fatal("Export failed", zap.Error(err))
	}

	fmt.Printf("Export written to %s\n", path)
}
