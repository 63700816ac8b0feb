package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/shiftsync/scheduler/config"
	"github.com/shiftsync/scheduler/internal/api"
	"github.com/shiftsync/scheduler/internal/assignment"
	"github.com/shiftsync/scheduler/internal/auth"
	"github.com/shiftsync/scheduler/internal/broadcast"
	"github.com/shiftsync/scheduler/internal/cache"
	"github.com/shiftsync/scheduler/internal/job"
	"github.com/shiftsync/scheduler/internal/logging"
	"github.com/shiftsync/scheduler/internal/metrics"
	"github.com/shiftsync/scheduler/internal/repository/postgres"
	"github.com/shiftsync/scheduler/internal/rules"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}

	log, err := logging.New(cfg.Env)
	if err != nil {
		panic(fmt.Sprintf("build logger: %v", err))
	}
	defer log.Sync()

	db, err := postgres.New(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnLifetime)
	if err != nil {
		log.Fatalw("connect database", "error", err)
	}

	ctx := context.Background()
	var store cache.Cache
	if cfg.CacheBackend == "redis" {
		store, err = cache.NewRedis(ctx, cfg.RedisURL)
	} else {
		store = cache.NewMemory()
	}
	if err != nil {
		log.Fatalw("connect cache", "error", err)
	}

	metrics.Register()

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	lockout := auth.NewLockout(store, cfg.MaxLoginAttempts, cfg.LockoutDuration)
	authSvc := auth.NewService(db.EmployeeRepository(), store, tokens, lockout)
	limiter := auth.NewLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	loginLimiter := auth.NewLimiter(cfg.LoginRateLimitPerMin, cfg.RateLimitBurst)

	ruleSvc := rules.NewService(db.RuleRepository(), db.EmployeeRepository())
	assignSvc := assignment.NewService(db)
	hub := broadcast.NewHub(cfg.BroadcastReplayBufferSize, cfg.BroadcastHeartbeat)

	var scheduler *job.Scheduler
	if opt, err := redis.ParseURL(cfg.RedisURL); err == nil {
		scheduler, err = job.NewScheduler(opt.Addr)
		if err != nil {
			log.Warnw("background scheduler unavailable, generate/optimize endpoints will fail", "error", err)
			scheduler = nil
		}
	} else {
		log.Warnw("invalid REDIS_URL, background scheduler disabled", "error", err)
	}

	e := api.NewRouter(api.Deps{
		Config:       cfg,
		DB:           db,
		Auth:         authSvc,
		Limiter:      limiter,
		LoginLimiter: loginLimiter,
		Rules:        ruleSvc,
		Assignment:   assignSvc,
		Hub:          hub,
		Scheduler:    scheduler,
		Log:          log,
	})

	go func() {
		log.Infow("starting server", "port", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	sigCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	<-sigCtx.Done()
	cancel()

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	var g errgroup.Group
	g.Go(func() error { return e.Shutdown(shutdownCtx) })
	g.Go(func() error { return db.Close() })
	g.Go(func() error { return store.Close() })
	g.Go(func() error {
		if scheduler == nil {
			return nil
		}
		return scheduler.Close()
	})
	if err := g.Wait(); err != nil {
		log.Errorw("shutdown encountered an error", "error", err)
	}
}
