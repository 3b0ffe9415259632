package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/profilesearch/internal/config"
	dbPostgres "github.com/kailas-cloud/profilesearch/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/profilesearch/internal/db/redis"
	logpkg "github.com/kailas-cloud/profilesearch/internal/logger"
	"github.com/kailas-cloud/profilesearch/internal/metrics"
	"github.com/kailas-cloud/profilesearch/internal/repository/memory"
	pgrepo "github.com/kailas-cloud/profilesearch/internal/repository/postgres"
	profilerepo "github.com/kailas-cloud/profilesearch/internal/repository/profile"
	chiTransport "github.com/kailas-cloud/profilesearch/internal/transport/chi"
	healthuc "github.com/kailas-cloud/profilesearch/internal/usecase/health"
	profileuc "github.com/kailas-cloud/profilesearch/internal/usecase/profile"
	"github.com/kailas-cloud/profilesearch/internal/version"
)

func main() {
	env := config.Env()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting profilesearch API server", append(version.Fields(),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)...)

	ctx := context.Background()
	backend, err := openStore(ctx, &cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open record store", zap.Error(err))
	}
	defer backend.close()

	metrics.RegisterSearchMetrics()

	store := profileuc.NewInstrumentedStore(backend.store, cfg.Database.QueryTimeout(), logger)
	profileSvc := profileuc.New(store, profileuc.Observers{
		profileuc.NewLogObserver(logger),
		metrics.NewSearchObserver(),
	})
	healthSvc := healthuc.New(backend.health)

	server := chiTransport.NewServer(profileSvc, healthSvc, logger).
		WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEvent(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr), zap.String("base_path", chiTransport.BasePath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// backend is the record store chosen by database.driver plus its health probe.
type backend struct {
	store  profileuc.Store
	health healthuc.Component
	close  func()
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*backend, error) {
	dbCfg := cfg.Database
	switch dbCfg.Driver {
	case config.DriverMemory:
		logger.Warn("Using in-memory record store, data is lost on restart")
		return &backend{
			store: memory.New().WithMaxResults(cfg.Search.MaxResults),
			close: func() {},
		}, nil

	case config.DriverRedis, config.DriverValkey:
		rs, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    dbCfg.Addrs,
			Username: dbCfg.Username,
			Password: dbCfg.Password,
			DB:       dbCfg.DB,
			Flavor:   dbRedis.Flavor(dbCfg.Driver),
		})
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", dbCfg.Driver, err)
		}
		if err := rs.WaitForReady(ctx, dbCfg.ReadinessTimeoutDuration()); err != nil {
			rs.Close()
			return nil, fmt.Errorf("%s not ready: %w", dbCfg.Driver, err)
		}
		repo := profilerepo.New(rs, cfg.Storage.KeyPrefix).WithMaxResults(cfg.Search.MaxResults)
		if err := repo.EnsureIndex(ctx); err != nil {
			rs.Close()
			return nil, fmt.Errorf("ensure index: %w", err)
		}
		logger.Info("Connected to database",
			zap.Strings("db_addrs", dbCfg.Addrs),
			zap.Bool("infix_search", rs.SupportsInfixSearch(ctx)),
		)
		return &backend{
			store:  repo,
			health: healthuc.Component{Name: dbCfg.Driver, Pinger: rs},
			close:  rs.Close,
		}, nil

	case config.DriverPostgres:
		pool, err := dbPostgres.WaitForReady(ctx, dbPostgres.Config{
			DSN:      dbCfg.DSN,
			MaxConns: dbCfg.MaxConns,
		}, dbCfg.ReadinessTimeoutDuration())
		if err != nil {
			return nil, fmt.Errorf("postgres not ready: %w", err)
		}
		if err := pgrepo.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("Connected to database", zap.String("db_driver", dbCfg.Driver))
		return &backend{
			store:  pgrepo.New(pool).WithMaxResults(cfg.Search.MaxResults),
			health: healthuc.Component{Name: dbCfg.Driver, Pinger: pool},
			close:  pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", dbCfg.Driver)
	}
}
