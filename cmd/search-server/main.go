// Package main provides the entry point for the package search service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anthropics/pkgsearch/internal/analyzer"
	"github.com/anthropics/pkgsearch/internal/corpusstore"
	"github.com/anthropics/pkgsearch/internal/httpapi"
	"github.com/anthropics/pkgsearch/internal/searchservice"
	"github.com/anthropics/pkgsearch/pkg/types"
)

func main() {
	config := parseFlags()
	printBanner(config)

	store, service, err := initComponents(config)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	server := httpapi.NewServer(config.Server, service)

	shutdownDone := make(chan struct{})
	go handleShutdown(server, store, config.Server.ShutdownTimeout, shutdownDone)

	log.Printf("Starting search service on port %d", config.Server.Port)
	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	<-shutdownDone
	log.Println("Search service stopped")
}

func parseFlags() *types.Config {
	config := types.DefaultConfig()

	flag.IntVar(&config.Server.Port, "port", config.Server.Port, "HTTP port")
	flag.IntVar(&config.Server.Port, "p", config.Server.Port, "HTTP port (shorthand)")

	flag.StringVar(&config.Corpus.DataDir, "data-dir", config.Corpus.DataDir, "Corpus data directory")
	flag.StringVar(&config.Corpus.DataDir, "d", config.Corpus.DataDir, "Corpus data directory (shorthand)")
	flag.BoolVar(&config.Corpus.SyncWrites, "sync", config.Corpus.SyncWrites, "Sync writes to disk")

	flag.Float64Var(&config.Index.PruneFraction, "prune-fraction", config.Index.PruneFraction, "Score fraction below which matches are dropped")

	flag.StringVar(&config.Log.Level, "log-level", config.Log.Level, "Log level (debug, info, warn, error)")
	flag.StringVar(&config.Log.Level, "l", config.Log.Level, "Log level (shorthand)")

	help := flag.Bool("help", false, "Show help")
	flag.BoolVar(help, "h", false, "Show help (shorthand)")

	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	return config
}

func printUsage() {
	fmt.Print(`Package Search Service - in-memory inverted-index search over a package corpus

Usage:
  search-server [options]

Options:
  -p, --port PORT           HTTP port (default: 8080)
  -d, --data-dir DIR        Corpus data directory (default: ./data)
  --sync                    Sync writes to disk
  --prune-fraction FRACTION Score fraction below which matches are dropped (default: 0.01)
  -l, --log-level LEVEL     Log level: debug, info, warn, error (default: info)
  -h, --help                Show this help

Examples:
  # Start with default settings
  search-server

  # Start on a custom port with a custom data directory
  search-server -p 9090 -d /var/lib/pkgsearch
`)
}

func printBanner(config *types.Config) {
	fmt.Println(`
╔══════════════════════════════════════════════════════════════╗
║                   Package Search Service                     ║
║          Inverted-Index Text Search over a Corpus             ║
╚══════════════════════════════════════════════════════════════╝`)
	fmt.Printf("  Port:      %d\n", config.Server.Port)
	fmt.Printf("  Data Dir:  %s\n", config.Corpus.DataDir)
	fmt.Println()
}

func initComponents(config *types.Config) (*corpusstore.Store, *searchservice.Service, error) {
	if err := os.MkdirAll(config.Corpus.DataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	log.Println("Opening corpus store...")
	store, err := corpusstore.Open(config.Corpus)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open corpus store: %w", err)
	}

	if err := corpusstore.Seed(store); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to seed corpus store: %w", err)
	}

	fieldWeights := config.Index.FieldWeights
	if len(fieldWeights) == 0 {
		fieldWeights = types.DefaultFieldWeights
	}
	fields := make([]types.FieldName, 0, len(fieldWeights))
	weights := make(map[types.FieldName]float64, len(fieldWeights))
	for name, weight := range fieldWeights {
		fields = append(fields, types.FieldName(name))
		weights[types.FieldName(name)] = weight
	}

	log.Println("Building search index from corpus...")
	service := searchservice.New(analyzer.NewDefault(), fields, weights, config.Index.PruneFraction)
	if err := service.Rebuild(context.Background(), store); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to build search index: %w", err)
	}

	log.Println("All components initialized successfully")
	return store, service, nil
}

func handleShutdown(server *httpapi.Server, store *corpusstore.Store, timeout time.Duration, done chan struct{}) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	if store != nil {
		log.Println("Flushing corpus store...")
		if err := store.Flush(); err != nil {
			log.Printf("Storage flush error: %v", err)
		}
		if err := store.Close(); err != nil {
			log.Printf("Storage close error: %v", err)
		}
	}

	log.Println("Shutdown complete")
	close(done)
}
