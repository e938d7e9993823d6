package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"familytrips/internal/config"
	"familytrips/internal/database"
	"familytrips/internal/handlers"
	"familytrips/internal/logging"
	"familytrips/internal/metrics"
	"familytrips/internal/repository"
	"familytrips/internal/security"
	"familytrips/internal/service"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL
	db, err := database.Open(ctx, cfg.Database.URL, database.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	logging.Info().Msg("database connection established")

	if cfg.Database.AutoMigrate {
		if err := db.MigrateUp(); err != nil {
			logging.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	if err := metrics.RegisterDBStats(db.DB.DB); err != nil {
		logging.Warn().Err(err).Msg("failed to register database pool metrics")
	}

	// Initialize repositories
	familyRepo := repository.NewFamilyRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)
	itineraryRepo := repository.NewItineraryRepository(db)

	// Initialize services
	familyService := service.NewFamilyService(familyRepo, memberRepo)
	itineraryService := service.NewItineraryService(itineraryRepo, familyRepo, preferenceRepo, cfg.API.MaxPageSize)

	tokens := security.NewTokenManager(cfg.Security.AdminTokenSecret, cfg.Security.AdminTokenIssuer)
	if !tokens.Enabled() {
		logging.Warn().Msg("admin token secret not set, catalog write endpoints are unauthenticated")
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		CORSOrigins:       cfg.Security.CORSOrigins,
		RateLimitRequests: cfg.Security.RateLimitRequests,
		RateLimitWindow:   cfg.Security.RateLimitWindow,
		RateLimitDisabled: cfg.Security.RateLimitDisabled,
	}, handlers.Deps{
		Families:    familyService,
		Itineraries: itineraryService,
		Tokens:      tokens,
		DB:          db,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logging.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		logging.Info().Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
	logging.Info().Msg("server stopped")
}
