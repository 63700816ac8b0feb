// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Config is the complete set of environment-driven settings for both the
// server and worker binaries. Fields not needed by a given binary are
// simply unused by it.
type Config struct {
	Env  string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port string `env:"PORT" envDefault:"8080" validate:"required"`

	DatabaseURL     string `env:"DATABASE_URL,required" validate:"required"`
	DBMaxOpenConns  int    `env:"DB_MAX_OPEN_CONNS" envDefault:"25" validate:"min=1,max=200"`
	DBMaxIdleConns  int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5" validate:"min=0,max=200"`
	DBConnLifetime  time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`

	CacheBackend    string        `env:"CACHE_BACKEND" envDefault:"memory" validate:"required,oneof=memory redis"`
	RedisURL        string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	CacheDefaultTTL time.Duration `env:"CACHE_DEFAULT_TTL" envDefault:"10m"`

	JWTSecret          string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`
	MaxLoginAttempts   int           `env:"MAX_LOGIN_ATTEMPTS" envDefault:"5" validate:"min=1,max=20"`
	LockoutDuration    time.Duration `env:"LOCKOUT_DURATION" envDefault:"15m"`

	RateLimitPerMinute    float64 `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60" validate:"min=1"`
	RateLimitBurst        int     `env:"RATE_LIMIT_BURST" envDefault:"20" validate:"min=1"`
	LoginRateLimitPerMin  float64 `env:"LOGIN_RATE_LIMIT_PER_MINUTE" envDefault:"10" validate:"min=1"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	MaxRequestBodyKB   int      `env:"MAX_REQUEST_BODY_KB" envDefault:"256" validate:"min=1"`
	SlowRequestMillis  int64    `env:"SLOW_REQUEST_THRESHOLD_MS" envDefault:"500" validate:"min=1"`

	SolverWorkerCount  int           `env:"SOLVER_WORKER_COUNT" envDefault:"4" validate:"min=1,max=64"`
	SolverTimeBudget   time.Duration `env:"SOLVER_TIME_BUDGET" envDefault:"30s"`
	SolverMaxWeeks     int           `env:"SOLVER_MAX_WEEKS" envDefault:"4" validate:"min=1,max=52"`

	BroadcastReplayBufferSize int           `env:"BROADCAST_REPLAY_BUFFER_SIZE" envDefault:"256" validate:"min=16,max=10000"`
	BroadcastHeartbeat        time.Duration `env:"BROADCAST_HEARTBEAT_INTERVAL" envDefault:"25s"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"required,oneof=debug info warn error"`
}

// Load parses and validates configuration from the process environment.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool { return c.Env == "production" }
