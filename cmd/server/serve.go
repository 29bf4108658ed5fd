package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"modlink/internal/config"
	"modlink/internal/db"
	"modlink/internal/handlers"
	"modlink/internal/ledger"
	"modlink/internal/metrics"
	"modlink/internal/middleware"
	"modlink/internal/router"
	"modlink/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := ledger.NewStore()

	var snapshotter *services.Snapshotter
	if cfg.Database.Driver != db.DriverNone {
		gdb, err := db.Open(cfg.Database.Driver, cfg.Database.DSN, logger)
		if err != nil {
			return err
		}
		if sqlDB, err := gdb.DB(); err == nil {
			defer sqlDB.Close()
		}

		repo := db.NewRepository(gdb)
		snap, err := repo.LoadSnapshot(ctx)
		if err != nil {
			return err
		}
		if err := store.Restore(snap); err != nil {
			return err
		}
		logger.Info("ledger restored",
			"contents", len(snap.Contents),
			"guidelines", len(snap.Guidelines),
			"users", len(snap.Users),
		)

		snapshotter = services.NewSnapshotter(store, repo, logger, cfg.SnapshotInterval)
		snapshotter.Start(ctx)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	engine := services.NewEngine(store,
		services.WithLogger(logger),
		services.WithMetrics(metrics.New(registry)),
		services.WithVoteThreshold(cfg.VoteThreshold),
	)

	var (
		scheduler handlers.Scheduler
		queue     *services.ModerationQueue
	)
	if cfg.AutoModerate {
		queue = services.NewModerationQueue(engine, logger, 0)
		queue.Start(ctx)
		scheduler = queue
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		var err error
		limiter, err = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.CacheSize)
		if err != nil {
			return err
		}
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	r.Use(sessions.Sessions("modlink_session", cookie.NewStore([]byte(cfg.SessionSecret))))
	router.RegisterRoutes(r, router.Deps{
		Engine:    engine,
		Scheduler: scheduler,
		Limiter:   limiter,
		Gatherer:  registry,
		IsAdmin:   cfg.IsAdmin,
	})

	srv := &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: r,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	if queue != nil {
		queue.Stop()
	}
	if snapshotter != nil {
		if err := snapshotter.Stop(shutdownCtx); err != nil {
			logger.Error("final snapshot failed", "error", err)
			return err
		}
	}
	return nil
}
