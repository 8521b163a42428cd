package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snort-dashboard/api/internal/handlers"
	"snort-dashboard/internal/dashboard"
	"snort-dashboard/internal/metrics"
	"snort-dashboard/internal/utils"

	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		configFile = flag.String("config", utils.DefaultConfigFile, "Configuration file path (YAML)")
		port       = flag.String("port", "", "API server port (overrides config)")
	)
	flag.Parse()

	// Load configuration
	bootLogger := utils.NewLogger("INFO")
	config, err := utils.LoadConfig(*configFile, bootLogger)
	if err != nil {
		bootLogger.Warnf("Failed to load config: %v", err)
		bootLogger.Warn("Falling back to default configuration")
		config = utils.GetDefaultConfig()
	}
	if *port != "" {
		config.Server.Port = *port
	}

	logger := utils.NewLoggerFromConfig(config.Logging)

	// One registry per process; every collector lives on it
	m := metrics.New()

	service, err := dashboard.NewService(config, logger, m)
	if err != nil {
		log.Fatalf("Failed to create dashboard service: %v", err)
	}

	if config.Server.AdminToken == "" {
		logger.Warn("No admin token configured, clearing logs over HTTP is disabled")
	}
	h := handlers.NewHandlers(service, handlers.TokenAuthorizer{Token: config.Server.AdminToken}, logger)

	addr := fmt.Sprintf(":%s", config.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handlers.NewRouter(h, config.Server.AllowedOrigins, m, logger),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Infof("API server starting on port %s", config.Server.Port)
		logger.Infof("Metrics available at: http://localhost:%s/metrics", config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatalf("API server stopped: %v", err)
	}
}
