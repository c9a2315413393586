// Package main is the entry point for the Panchanga API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zapponejosh/panchanga-api/internal/api"
	"github.com/zapponejosh/panchanga-api/internal/config"
	"github.com/zapponejosh/panchanga-api/internal/ephemeris"
	"github.com/zapponejosh/panchanga-api/internal/logger"
	"github.com/zapponejosh/panchanga-api/internal/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	// Log startup info
	log.Info("starting panchanga API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
		slog.String("ephemeris", cfg.EphemerisEngine),
		slog.String("sidereal_mode", cfg.SiderealMode),
		slog.Int("locations", len(cfg.Locations)),
	)

	oracle, err := ephemeris.Open(cfg.EphemerisEngine)
	if err != nil {
		return fmt.Errorf("open ephemeris: %w", err)
	}
	if cfg.MetricsEnabled {
		oracle = telemetry.InstrumentOracle(oracle)
	}

	mode, err := ephemeris.ParseSiderealMode(cfg.SiderealMode)
	if err != nil {
		return err
	}
	session, err := ephemeris.NewSession(oracle, ephemeris.Config{Mode: mode, DataPath: cfg.EphemerisPath})
	if err != nil {
		return fmt.Errorf("configure ephemeris: %w", err)
	}

	handlers, err := api.NewHandlers(session, cfg, log)
	if err != nil {
		return fmt.Errorf("create handlers: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second, // a full year takes a while
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("panchanga API ready", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigChan:
		log.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
