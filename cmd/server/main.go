package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Yamine-coder/gestion-rh-sub010/config"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/api/handler"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/api/router"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/repository"
	"github.com/Yamine-coder/gestion-rh-sub010/internal/service"
	"github.com/Yamine-coder/gestion-rh-sub010/pkg/database"
	"github.com/Yamine-coder/gestion-rh-sub010/pkg/jwt"
	applogger "github.com/Yamine-coder/gestion-rh-sub010/pkg/logger"
	"github.com/Yamine-coder/gestion-rh-sub010/pkg/redis"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading configuration failed: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize logging
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting attendance service",
		zap.Int("port", cfg.Server.Port),
		zap.String("timezone", cfg.Attendance.Timezone),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. Connect to the database
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	logger.Info("database connected")

	// 3.1 Run migrations
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("acquiring underlying sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// 4. Connect to Redis (optional: on failure the sweep leader lock
	// degrades and the service keeps running single-instance)
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis connection failed, sweep leader lock disabled", zap.Error(err))
		rdb = nil
	}

	// 5. JWT manager
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. Dependency injection: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, logger)
	h := handler.NewHandler(svc)

	// 7. Routes
	engine := router.Setup(cfg, h, jwtMgr, logger)

	// 8. Periodic reconciliation sweep
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	go runPeriodicSweep(sweepCtx, &cfg.Attendance, svc.Reconcile, logger)

	// 9. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 10. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", zap.String("signal", sig.String()))

	cancelSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}

// runPeriodicSweep reconciles the recent lookback window on a fixed
// interval. An interrupted run is harmless: reconciliation is
// idempotent, the next tick picks the window up again.
func runPeriodicSweep(ctx context.Context, cfg *config.AttendanceConfig, reconcile service.ReconcileService, logger *zap.Logger) {
	if cfg.SweepInterval <= 0 {
		logger.Info("periodic sweep disabled")
		return
	}

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			to := time.Now().UTC().Truncate(24 * time.Hour)
			from := to.AddDate(0, 0, -cfg.SweepLookback)

			result, err := reconcile.Sweep(ctx, from, to)
			if err != nil {
				if err == service.ErrSweepInProgress {
					logger.Debug("sweep skipped, another instance holds the lock")
					continue
				}
				logger.Error("periodic sweep failed", zap.Error(err))
				continue
			}

			logger.Info("periodic sweep finished",
				zap.Int("keys_scanned", result.KeysScanned),
				zap.Int("created", result.Created),
				zap.Int("failed_keys", result.FailedKeys),
				zap.Int64("duration_ms", result.DurationMS),
			)
		}
	}
}
