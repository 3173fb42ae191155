package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/opencart-qa/storefront-suite/internal/config"
)

// ServerDependencies holds all dependencies needed for the report server
type ServerDependencies struct {
	ServerConfig  config.ServerConfig
	ReportDir     string
	ScreenshotDir string
	IndexHandler  http.Handler
	// RunsHandler and RunHandler are nil when no history database is configured
	RunsHandler http.Handler
	RunHandler  http.Handler
}

// RunServe starts the report server
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	return WaitForShutdown(server, nil)
}

// NewRouter wires the report server routes
func NewRouter(deps ServerDependencies) *mux.Router {
	router := mux.NewRouter()
	router.Handle("/", deps.IndexHandler)
	router.PathPrefix("/reports/").Handler(
		http.StripPrefix("/reports/", http.FileServer(http.Dir(deps.ReportDir)))).Methods(http.MethodGet)
	router.PathPrefix("/screenshots/").Handler(
		http.StripPrefix("/screenshots/", http.FileServer(http.Dir(deps.ScreenshotDir)))).Methods(http.MethodGet)

	if deps.RunsHandler != nil {
		router.Handle("/api/runs", deps.RunsHandler)
	}
	if deps.RunHandler != nil {
		router.Handle("/api/runs/{id}", deps.RunHandler)
	}
	return router
}

// StartServer creates and starts the HTTP server, returning the listener and server
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	logger := zap.L()

	addr := fmt.Sprintf(":%s", deps.ServerConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	accessLog := zap.NewStdLog(logger.Named("access")).Writer()
	server := &http.Server{
		Handler: handlers.LoggingHandler(accessLog, handlers.CompressHandler(NewRouter(deps))),
	}

	go func() {
		logger.Info("Report server listening", zap.String("addr", listener.Addr().String()))
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", zap.Error(err))
		}
	}()

	return listener, server, nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server
// If shutdown channel is nil, a new channel will be created and registered with signal.Notify
func WaitForShutdown(server *http.Server, shutdown chan os.Signal) error {
	return WaitForShutdownWithTimeout(server, shutdown, 30*time.Second)
}

// WaitForShutdownWithTimeout allows specifying a custom shutdown timeout (primarily for testing)
func WaitForShutdownWithTimeout(server *http.Server, shutdown chan os.Signal, shutdownTimeout time.Duration) error {
	logger := zap.L()

	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(shutdown)
	}

	sig := <-shutdown
	logger.Info("Received signal, shutting down server", zap.Stringer("signal", sig))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		// Requests still open after shutdownTimeout are cut off.
		logger.Warn("Graceful shutdown timed out, closing connections", zap.Error(err))
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not close server: %w", err)
		}
	}

	logger.Info("Server stopped")
	return nil
}
