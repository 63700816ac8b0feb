package main

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/shiftsync/scheduler/config"
	"github.com/shiftsync/scheduler/internal/assignment"
	"github.com/shiftsync/scheduler/internal/broadcast"
	"github.com/shiftsync/scheduler/internal/job"
	"github.com/shiftsync/scheduler/internal/logging"
	"github.com/shiftsync/scheduler/internal/metrics"
	"github.com/shiftsync/scheduler/internal/repository/postgres"
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
	defer db.Close()

	metrics.Register()

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalw("invalid REDIS_URL", "error", err)
	}

	assignSvc := assignment.NewService(db)
	hub := broadcast.NewHub(cfg.BroadcastReplayBufferSize, cfg.BroadcastHeartbeat)
	handlers := job.NewHandlers(db, assignSvc, hub, cfg.SolverWorkerCount, cfg.SolverTimeBudget)

	mux := asynq.NewServeMux()
	handlers.Register(mux)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: opt.Addr, Password: opt.Password, DB: opt.DB},
		asynq.Config{
			Concurrency: cfg.SolverWorkerCount,
			Queues: map[string]int{
				"solver":  6,
				"default": 3,
			},
		},
	)

	log.Infow("starting worker", "concurrency", cfg.SolverWorkerCount)
	if err := srv.Run(mux); err != nil {
		log.Fatalw("worker stopped", "error", err)
	}
}
