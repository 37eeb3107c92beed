package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"tinysteps/internal/analytics"
	"tinysteps/internal/clock"
	"tinysteps/internal/config"
	"tinysteps/internal/database"
	"tinysteps/internal/handlers"
	"tinysteps/internal/reporting"
	"tinysteps/internal/repository"
	"tinysteps/internal/security"
	"tinysteps/internal/service"
)

const (
	stepConfig   = "Loading configuration"
	stepDatabase = "Connecting handoff database"
	stepMigrate  = "Running migrations"
	stepServices = "Initializing services"
)

func main() {
	startup := handlers.NewStartupStatus(stepConfig, stepDatabase, stepMigrate, stepServices)

	// Load configuration
	cfg := config.Load()
	logger := cfg.NewLogger()
	if cfg.RollbarToken != "" {
		host, _ := os.Hostname()
		flush := reporting.Configure(reporting.Options{
			Token:       cfg.RollbarToken,
			Environment: cfg.Environment,
			ServerHost:  host,
		})
		defer flush()
		logger = slog.New(reporting.NewHandler(logger.Handler(), reporting.Rollbar))
	}
	slog.SetDefault(logger)
	startup.CompleteStep(stepConfig)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The learning core always runs in memory; a SQL database only receives
	// the deletion handoff and the analytics archive.
	var (
		mirror  analytics.Mirror
		handoff service.DeletionHandoff
	)
	if cfg.HandoffEnabled() {
		startup.SetCurrentStep(stepDatabase)
		db, err := database.InitializeWithConfig(cfg)
		if err != nil {
			logger.Error("failed to initialize handoff database", "type", cfg.DatabaseType, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		logger.Info("handoff database connection established", "type", cfg.DatabaseType)
		startup.CompleteStep(stepDatabase)

		startup.SetCurrentStep(stepMigrate)
		if err := db.RunMigrations(ctx, cfg.MigrationsPath, logger); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		startup.CompleteStep(stepMigrate)

		mirror = repository.NewAnalyticsRepository(db)
		handoff = repository.NewDeletionRepository(db)
	} else {
		logger.Info("handoff database disabled: DATABASE_TYPE not set")
		startup.CompleteStep(stepDatabase)
		startup.CompleteStep(stepMigrate)
	}

	startup.SetCurrentStep(stepServices)
	emailService, err := service.NewEmailService(ctx, cfg.SESRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.EmailDebug, logger)
	if err != nil {
		logger.Error("failed to initialize email service", "error", err)
		os.Exit(1)
	}

	clk := clock.SystemClock{}
	core := service.NewCore(service.CoreOptions{
		Clock:            clk,
		Mirror:           mirror,
		Handoff:          handoff,
		Notifier:         emailService,
		DefaultMarket:    cfg.DefaultMarket,
		EstimatedMinutes: cfg.LessonEstimatedMinutes,
		Logger:           logger,
	})

	limiter := security.NewRateLimiter(cfg.SignupRateLimit, cfg.SignupRateWindow, clk)
	defer limiter.Stop()

	api := handlers.NewAPI(core, security.NewTokenRegistry(), limiter, clk, startup, logger)
	startup.CompleteStep(stepServices)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      api.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := serve(ctx, server, addr, startup, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

// serve binds addr, marks startup ready once the port is held, and serves
// until ctx is done
func serve(ctx context.Context, server *http.Server, addr string, startup *handlers.StartupStatus, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	startup.MarkReady()

	return g.Wait()
}
