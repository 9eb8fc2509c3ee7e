// Command trie-server serves a prefix trie over HTTP and persists it to a
// JSON state file after every change.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/kumarlokesh/trie-server/internal/api"
	"github.com/kumarlokesh/trie-server/internal/config"
	"github.com/kumarlokesh/trie-server/internal/logging"
	"github.com/kumarlokesh/trie-server/internal/store"
)

func main() {
	var (
		port       int
		stateFile  string
		configPath string
		debug      bool
	)
	flag.IntVar(&port, "port", 0, "port to listen on (default 8080)")
	flag.IntVar(&port, "p", 0, "shorthand for -port")
	flag.StringVar(&stateFile, "state", "", "path of the JSON state file (default "+config.DefaultStateFile+")")
	flag.StringVar(&stateFile, "s", "", "shorthand for -state")
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.BoolVar(&debug, "debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Flags given on the command line win over file and environment values
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port", "p":
			cfg.Server.Port = port
		case "state", "s":
			cfg.State.File = stateFile
		case "debug":
			cfg.Log.Level = "debug"
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Pretty, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	var s store.Store
	if cfg.State.File == "" {
		logger.Warn().Msg("State file disabled, changes are kept in memory only")
		s = store.NewMemoryStore()
	} else {
		if cfg.State.IsDefault() {
			logger.Warn().Str("file", cfg.State.File).Msg("No state file provided. To save to a persistent location, set the --state flag.")
		}
		var err error
		s, err = store.NewFileStore(cfg.State.File)
		if err != nil {
			return fmt.Errorf("failed to initialize state file: %w", err)
		}
		logger.Info().Str("file", cfg.State.File).Msg("Using state file")
	}

	ctx := context.Background()
	if err := s.Ping(ctx); err != nil {
		return fmt.Errorf("state store ping failed: %w", err)
	}

	t, err := store.LoadOrEmpty(ctx, s, logger)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	dispatcher := api.NewDispatcher(t, s,
		api.WithDefaultCount(cfg.Suggest.DefaultCount),
		api.WithLogger(logger),
	)
	server := api.NewServer(cfg.Server.Addr(), dispatcher, logger)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr()).Msg("Starting trie server")
		serverErrors <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("Received signal, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error during server shutdown")
	} else {
		logger.Info().Msg("Server gracefully stopped")
	}
	return nil
}
