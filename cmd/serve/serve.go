// Package serve implements the replay server command.
package serve

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
	"github.com/spf13/viper"

	"github.com/jonesrussell/pageserve/internal/api"
	"github.com/jonesrussell/pageserve/internal/archive"
	"github.com/jonesrussell/pageserve/internal/config"
	"github.com/jonesrussell/pageserve/internal/logger"
)

// === Types ===

// CommandDeps holds common dependencies for the serve command.
type CommandDeps struct {
	Logger logger.Interface
	Config *config.Config
}

// === Constants ===

const (
	signalChannelBufferSize = 1
	errorChannelBufferSize  = 1
	defaultShutdownTimeout  = 30 * time.Second
)

// === Errors ===

var (
	// errLoggerRequired is returned when CommandDeps.Logger is nil
	errLoggerRequired = errors.New("logger is required")
	// errConfigRequired is returned when CommandDeps.Config is nil
	errConfigRequired = errors.New("config is required")
)

// Command returns the serve command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local replay server",
		Long:  `Load every .page archive under the container directory and serve it for browsing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Start()
		},
	}

	cmd.Flags().Int("port", config.DefaultPort, "port to listen on")
	cmd.Flags().String("directory", config.DefaultDirectory, "directory scanned for .page files")
	_ = viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("archive.directory", cmd.Flags().Lookup("directory"))

	return cmd
}

// === Main Entry Point ===

// Start starts the replay server and runs until interrupted.
// It handles graceful shutdown on SIGINT or SIGTERM signals.
func Start() error {
	// Phase 1: Initialize dependencies
	deps, err := newCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	// Phase 2: Load containers
	registry, err := loadRegistry(deps)
	if err != nil {
		return err
	}

	// Phase 3: Start HTTP server
	server, errChan := startHTTPServer(deps, registry)

	// Phase 4: Run server until interrupted
	return runServerUntilInterrupt(deps.Logger, server, errChan)
}

// === Dependency Setup ===

// newCommandDeps creates CommandDeps by loading config and creating logger.
func newCommandDeps() (*CommandDeps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := createLogger()
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	deps := &CommandDeps{
		Logger: log,
		Config: cfg,
	}

	if validateErr := deps.validate(); validateErr != nil {
		return nil, fmt.Errorf("validate deps: %w", validateErr)
	}

	return deps, nil
}

// createLogger creates a logger instance from Viper configuration.
func createLogger() (logger.Interface, error) {
	logCfg := &logger.Config{
		Level:       logger.Level(viper.GetString("logger.level")),
		Development: viper.GetBool("logger.development"),
		Encoding:    viper.GetString("logger.encoding"),
		OutputPaths: viper.GetStringSlice("logger.output_paths"),
	}
	return logger.New(logCfg)
}

// validate ensures all required dependencies are present.
func (d *CommandDeps) validate() error {
	if d.Logger == nil {
		return errLoggerRequired
	}
	if d.Config == nil {
		return errConfigRequired
	}
	return nil
}

// === Container Loading ===

// loadRegistry loads every container under the configured directory.
// Starting a content server with nothing to serve is a misconfiguration, so
// zero loaded containers refuses startup.
func loadRegistry(deps *CommandDeps) (*archive.Registry, error) {
	dir := deps.Config.Archive.Directory
	registry := archive.NewRegistry(deps.Logger)

	if err := registry.LoadDirectory(dir); err != nil {
		return nil, fmt.Errorf("load containers: %w", err)
	}
	if registry.Len() == 0 {
		return nil, fmt.Errorf("%w under %s: run the downloader first or point --directory at your archives",
			archive.ErrNoContainers, dir)
	}

	deps.Logger.Info("Containers ready",
		"directory", dir,
		"sites", registry.Len())
	return registry, nil
}

// === Server Setup ===

// startHTTPServer creates and starts the HTTP server.
// Returns the server and an error channel for server errors.
func startHTTPServer(deps *CommandDeps, registry *archive.Registry) (*http.Server, chan error) {
	server := api.NewHTTPServer(deps.Logger, deps.Config.Server, registry)

	deps.Logger.Info("Starting HTTP server", "addr", server.Addr)
	errChan := make(chan error, errorChannelBufferSize)
	go func() {
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	return server, errChan
}

// runServerUntilInterrupt runs the server until interrupted by signal or error.
func runServerUntilInterrupt(log logger.Interface, server *http.Server, errChan chan error) error {
	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, signalChannelBufferSize)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case serverErr := <-errChan:
		log.Error("Server error", "error", serverErr)
		return fmt.Errorf("server error: %w", serverErr)
	case sig := <-sigChan:
		return shutdownServer(log, server, sig)
	}
}

// shutdownServer performs graceful shutdown of the server.
func shutdownServer(log logger.Interface, server *http.Server, sig os.Signal) error {
	log.Info("Shutdown signal received", "signal", sig.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	log.Info("Stopping HTTP server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to stop server", "error", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	log.Info("Server stopped successfully")
	return nil
}
