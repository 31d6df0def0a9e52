// Package config loads runtime settings for the API, the worker and the lambdas.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDynamoDB = "dynamodb"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	CacheRedis = "redis"
	CacheLRU   = "lru"

	SchedulerRedis = "redis"
	SchedulerSQS   = "sqs"
)

const (
	defaultPort                 = "8080"
	defaultLogLevel             = "info"
	defaultLRUCacheSize         = 10_000
	defaultGatewayTimeout       = 10 * time.Second
	defaultWorkerConcurrency    = 8
	defaultWorkerPollInterval   = time.Second
	defaultWorkerVisibility     = 5 * time.Minute
	defaultReconcileInterval    = time.Minute
	defaultReconcileStall       = 5 * time.Minute
	defaultReconcileMaxAttempts = 3
	defaultShutdownTimeout      = 10 * time.Second
)

// Config captures the runtime configuration read from the environment.
type Config struct {
	Port     string
	LogLevel string

	StorageDriver     string
	DatabaseURL       string
	WalletsTable      string
	TransactionsTable string
	TasksTable        string
	LedgerTable       string

	CacheDriver  string
	RedisURL     string
	LRUCacheSize int

	SchedulerDriver string
	SQSQueueURL     string
	AlertsQueueURL  string

	GatewayURL     string
	GatewayTimeout time.Duration

	WorkerConcurrency       int
	WorkerPollInterval      time.Duration
	WorkerVisibilityTimeout time.Duration

	ReconcileInterval       time.Duration
	ReconcileStallThreshold time.Duration
	ReconcileMaxAttempts    int

	ShutdownTimeout time.Duration
}

// Load reads a .env file when present and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := Config{
		Port:              getEnv("HTTP_PORT", defaultPort),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		StorageDriver:     strings.ToLower(getEnv("STORAGE_DRIVER", StorageDynamoDB)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		WalletsTable:      os.Getenv("DYNAMODB_WALLETS_TABLE_NAME"),
		TransactionsTable: os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME"),
		TasksTable:        os.Getenv("DYNAMODB_TASKS_TABLE_NAME"),
		LedgerTable:       os.Getenv("DYNAMODB_LEDGER_TABLE_NAME"),
		CacheDriver:       strings.ToLower(getEnv("CACHE_DRIVER", CacheLRU)),
		RedisURL:          os.Getenv("REDIS_URL"),
		SchedulerDriver:   strings.ToLower(getEnv("SCHEDULER_DRIVER", SchedulerSQS)),
		SQSQueueURL:       os.Getenv("SQS_QUEUE_URL"),
		AlertsQueueURL:    os.Getenv("ALERTS_QUEUE_URL"),
		GatewayURL:        os.Getenv("GATEWAY_URL"),
	}

	var err error
	if cfg.LRUCacheSize, err = getInt("LRU_CACHE_SIZE", defaultLRUCacheSize); err != nil {
		return Config{}, err
	}
	if cfg.GatewayTimeout, err = getDuration("GATEWAY_TIMEOUT", defaultGatewayTimeout); err != nil {
		return Config{}, err
	}
	if cfg.WorkerConcurrency, err = getInt("WORKER_CONCURRENCY", defaultWorkerConcurrency); err != nil {
		return Config{}, err
	}
	if cfg.WorkerPollInterval, err = getDuration("WORKER_POLL_INTERVAL", defaultWorkerPollInterval); err != nil {
		return Config{}, err
	}
	if cfg.WorkerVisibilityTimeout, err = getDuration("WORKER_VISIBILITY_TIMEOUT", defaultWorkerVisibility); err != nil {
		return Config{}, err
	}
	if cfg.ReconcileInterval, err = getDuration("RECONCILE_INTERVAL", defaultReconcileInterval); err != nil {
		return Config{}, err
	}
	if cfg.ReconcileStallThreshold, err = getDuration("RECONCILE_STALL_THRESHOLD", defaultReconcileStall); err != nil {
		return Config{}, err
	}
	if cfg.ReconcileMaxAttempts, err = getInt("RECONCILE_MAX_ATTEMPTS", defaultReconcileMaxAttempts); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every setting required by the selected drivers is present.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageDynamoDB:
		if c.WalletsTable == "" || c.TransactionsTable == "" || c.TasksTable == "" || c.LedgerTable == "" {
			return fmt.Errorf("one or more DynamoDB table name environment variables are not set")
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set when STORAGE_DRIVER=%s", StoragePostgres)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	switch c.CacheDriver {
	case CacheRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL must be set when CACHE_DRIVER=%s", CacheRedis)
		}
	case CacheLRU:
	default:
		return fmt.Errorf("unknown CACHE_DRIVER %q", c.CacheDriver)
	}

	switch c.SchedulerDriver {
	case SchedulerRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL must be set when SCHEDULER_DRIVER=%s", SchedulerRedis)
		}
	case SchedulerSQS:
		if c.SQSQueueURL == "" {
			return fmt.Errorf("SQS_QUEUE_URL must be set when SCHEDULER_DRIVER=%s", SchedulerSQS)
		}
	default:
		return fmt.Errorf("unknown SCHEDULER_DRIVER %q", c.SchedulerDriver)
	}

	if c.GatewayURL == "" {
		return fmt.Errorf("GATEWAY_URL must be set")
	}
	if c.WorkerConcurrency <= 0 {
		return fmt.Errorf("WORKER_CONCURRENCY must be positive")
	}
	if c.ReconcileMaxAttempts <= 0 {
		return fmt.Errorf("RECONCILE_MAX_ATTEMPTS must be positive")
	}
	return nil
}

// Address returns the listen address for the HTTP server.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
