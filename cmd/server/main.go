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

	"github.com/roob1e/tabularium/config"
	"github.com/roob1e/tabularium/internal/api/handler"
	"github.com/roob1e/tabularium/internal/api/router"
	"github.com/roob1e/tabularium/internal/promotion"
	"github.com/roob1e/tabularium/internal/repository"
	"github.com/roob1e/tabularium/internal/scheduler"
	"github.com/roob1e/tabularium/internal/service"
	"github.com/roob1e/tabularium/pkg/database"
	"github.com/roob1e/tabularium/pkg/jwt"
	applogger "github.com/roob1e/tabularium/pkg/logger"
	"github.com/roob1e/tabularium/pkg/redis"
)

func main() {
	// 1. configuration
	cfg, err := config.Load(os.Getenv("TABULARIUM_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// 4. Redis is optional: without it tokens cannot be revoked early and rate limits are off
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, token blacklist and rate limiting disabled", zap.Error(err))
		rdb = nil
	}
	var blacklist service.TokenBlacklist
	if rdb != nil {
		blacklist = rdb
	}

	// 5. JWT
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. promotion: executor behind a single-run guard shared by cron and manual runs
	repo := repository.NewRepository(db)
	runner := promotion.NewExclusive(promotion.NewExecutor(repository.NewPromotionStore(db), logger))

	loc, err := cfg.Promotion.Location()
	if err != nil {
		logger.Fatal("invalid promotion timezone", zap.Error(err))
	}
	defaultDate, err := scheduler.ParseDateSpec(cfg.Promotion.DefaultDate, time.Now().In(loc))
	if err != nil {
		logger.Fatal("invalid promotion default date",
			zap.String("default_date", cfg.Promotion.DefaultDate), zap.Error(err))
	}

	history := service.NewRunHistory()
	sched, err := scheduler.NewManager(runner, scheduler.Options{
		Date:       defaultDate,
		Workers:    cfg.Promotion.Workers,
		QueueSize:  cfg.Promotion.QueueSize,
		RunTimeout: cfg.Promotion.RunTimeout,
		Location:   loc,
		OnReport:   history.RecordScheduled,
	}, logger)
	if err != nil {
		logger.Fatal("create promotion scheduler failed", zap.Error(err))
	}
	sched.Start()

	// 7. Repository → Service → Handler
	svc := service.NewService(cfg, repo, jwtMgr, blacklist, service.PromotionDeps{
		Scheduler: sched,
		Runner:    runner,
		History:   history,
	}, logger)
	h := handler.NewHandler(svc)

	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 8. HTTP server with graceful shutdown
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	// in-flight promotion runs finish before the database goes away
	if err := sched.Stop(ctx); err != nil {
		logger.Warn("promotion scheduler did not stop in time", zap.Error(err))
	}

	if sqlDB != nil {
		sqlDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("stopped")
}
