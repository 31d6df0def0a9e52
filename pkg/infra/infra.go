// Package infra opens the backing services selected by the configuration and hands
// them to the binaries as the interfaces the service packages depend on.
package infra

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/scheduled-withdrawals/pkg/alerts"
	"github.com/chris/scheduled-withdrawals/pkg/cache"
	"github.com/chris/scheduled-withdrawals/pkg/config"
	"github.com/chris/scheduled-withdrawals/pkg/scheduler"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
	dydbstore "github.com/chris/scheduled-withdrawals/pkg/storage/dynamodb"
	"github.com/chris/scheduled-withdrawals/pkg/storage/memory"
	pgstore "github.com/chris/scheduled-withdrawals/pkg/storage/postgres"
	"github.com/redis/go-redis/v9"
)

// Infra holds the opened backing services. Clients that were not needed by the
// configuration stay nil.
type Infra struct {
	cfg    config.Config
	logger *slog.Logger

	Store     storage.Storage
	Cache     cache.BalanceCache
	Scheduler scheduler.Scheduler
	Alerter   alerts.Alerter

	// Redis is set when either the cache or the scheduler runs on Redis.
	Redis *redis.Client
	// SQS is set when the scheduler or the alert queue runs on SQS.
	SQS *sqs.Client

	closers []func()
}

// Open connects every backing service named by cfg. On error the services opened so far
// are closed again.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Infra, error) {
	in := &Infra{cfg: cfg, logger: logger}
	if err := in.open(ctx); err != nil {
		in.Close()
		return nil, err
	}
	return in, nil
}

func (in *Infra) open(ctx context.Context) error {
	if in.needsRedis() {
		client, err := NewRedisClient(ctx, in.cfg.RedisURL)
		if err != nil {
			return err
		}
		in.Redis = client
		in.closers = append(in.closers, func() { _ = client.Close() })
	}

	if in.needsAWS() {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return fmt.Errorf("unable to load SDK config: %w", err)
		}
		if in.cfg.SchedulerDriver == config.SchedulerSQS || in.cfg.AlertsQueueURL != "" {
			in.SQS = sqs.NewFromConfig(awsCfg)
		}
		if in.cfg.StorageDriver == config.StorageDynamoDB {
			in.Store = dydbstore.New(dynamodb.NewFromConfig(awsCfg),
				in.cfg.WalletsTable, in.cfg.TransactionsTable, in.cfg.TasksTable, in.cfg.LedgerTable)
		}
	}

	if err := in.openStore(ctx); err != nil {
		return err
	}
	if err := in.openCache(); err != nil {
		return err
	}
	if err := in.openScheduler(); err != nil {
		return err
	}

	in.Alerter = alerts.NewLogAlerter(in.logger)
	if in.cfg.AlertsQueueURL != "" {
		in.Alerter = alerts.NewSQSAlerter(in.SQS, in.cfg.AlertsQueueURL, in.Alerter)
	}
	return nil
}

func (in *Infra) openStore(ctx context.Context) error {
	switch in.cfg.StorageDriver {
	case config.StorageDynamoDB:
		return nil
	case config.StoragePostgres:
		pool, err := NewPostgresPool(ctx, in.cfg.DatabaseURL)
		if err != nil {
			return err
		}
		in.closers = append(in.closers, pool.Close)
		store := pgstore.New(pool)
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		in.Store = store
		return nil
	case config.StorageMemory:
		in.logger.Warn("using in-memory storage, state is lost on restart")
		in.Store = memory.New()
		return nil
	}
	return fmt.Errorf("unknown storage driver %q", in.cfg.StorageDriver)
}

func (in *Infra) openCache() error {
	switch in.cfg.CacheDriver {
	case config.CacheRedis:
		in.Cache = cache.NewRedisCache(in.Redis)
		return nil
	case config.CacheLRU:
		c, err := cache.NewLRUCache(in.cfg.LRUCacheSize)
		if err != nil {
			return err
		}
		in.Cache = c
		return nil
	}
	return fmt.Errorf("unknown cache driver %q", in.cfg.CacheDriver)
}

func (in *Infra) openScheduler() error {
	switch in.cfg.SchedulerDriver {
	case config.SchedulerRedis:
		in.Scheduler = scheduler.NewRedisScheduler(in.Redis, in.logger)
		return nil
	case config.SchedulerSQS:
		in.Scheduler = scheduler.NewSQSScheduler(in.SQS, in.cfg.SQSQueueURL, in.logger)
		return nil
	}
	return fmt.Errorf("unknown scheduler driver %q", in.cfg.SchedulerDriver)
}

// RedisScheduler returns the scheduler as a *scheduler.RedisScheduler, which the worker polls.
func (in *Infra) RedisScheduler() (*scheduler.RedisScheduler, error) {
	s, ok := in.Scheduler.(*scheduler.RedisScheduler)
	if !ok {
		return nil, errors.New("SCHEDULER_DRIVER must be redis to run the worker")
	}
	return s, nil
}

// SQSScheduler returns the scheduler as a *scheduler.SQSScheduler, which the settlement lambda forwards with.
func (in *Infra) SQSScheduler() (*scheduler.SQSScheduler, error) {
	s, ok := in.Scheduler.(*scheduler.SQSScheduler)
	if !ok {
		return nil, errors.New("SCHEDULER_DRIVER must be sqs to run the settlement lambda")
	}
	return s, nil
}

// Close releases every opened client in reverse order.
func (in *Infra) Close() {
	for i := len(in.closers) - 1; i >= 0; i-- {
		in.closers[i]()
	}
	in.closers = nil
}

func (in *Infra) needsRedis() bool {
	return in.cfg.CacheDriver == config.CacheRedis || in.cfg.SchedulerDriver == config.SchedulerRedis
}

func (in *Infra) needsAWS() bool {
	return in.cfg.StorageDriver == config.StorageDynamoDB ||
		in.cfg.SchedulerDriver == config.SchedulerSQS ||
		in.cfg.AlertsQueueURL != ""
}
