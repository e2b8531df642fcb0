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
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wertigo/travel-planner/internal/api/middleware"
	"github.com/wertigo/travel-planner/internal/api/server"
	"github.com/wertigo/travel-planner/internal/api/shared/executor"
	"github.com/wertigo/travel-planner/internal/audit"
	"github.com/wertigo/travel-planner/internal/config"
	"github.com/wertigo/travel-planner/internal/identity"
	"github.com/wertigo/travel-planner/internal/logger"
	"github.com/wertigo/travel-planner/internal/store"
	"github.com/wertigo/travel-planner/internal/store/schema"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Environment:     cfg.Environment,
		Tags: map[string]string{
			"service": "api-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Travel Planner API")

	// Connect to database. TranslateError surfaces unique violations as
	// gorm.ErrDuplicatedKey, which the mint loops rely on.
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Migrate schema
	err = db.AutoMigrate(
		&schema.User{},
		&schema.UserSession{},
		&schema.Trip{},
		&schema.TripDestination{},
		&schema.TripRoute{},
		&schema.GeneratedTicket{},
		&schema.TripTracker{},
		&schema.Review{},
		&schema.Interaction{},
	)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to migrate schema", zap.Error(err))
	}

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Identity plumbing
	secret := []byte(cfg.Auth.JWTSecret)
	verifier := identity.NewJWTVerifier(secret)
	issuer := identity.NewJWTIssuer(secret, cfg.Auth.TokenTTL)
	resolver := identity.NewResolver(verifier, store.NewPrincipalGetter(dataStore))

	// Best-effort interaction recorder
	recorder := audit.NewRecorder(dataStore, cfg.Audit.Workers, cfg.Audit.QueueSize)
	defer recorder.Close()

	// Business logic
	exec := executor.NewExecutor(dataStore, issuer, recorder, executor.Config{
		SessionTTL:         cfg.Auth.SessionTTL,
		TrackerTTL:         cfg.Trackers.TTL,
		TicketHistoryLimit: cfg.Tickets.HistoryLimit,
		MaxMintAttempts:    cfg.Tickets.MaxAttempts,
	})

	// Create server config
	serverConfig := server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}
	authCfg := middleware.AuthConfig{
		Resolver:     resolver,
		AdminAPIKeys: cfg.Auth.AdminAPIKeys,
	}

	// Create and start server
	srv := server.New(serverConfig, exec, authCfg)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	logger.Info("API server stopped")
}
