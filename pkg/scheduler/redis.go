package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	dueKey        = "deferred:due"
	payloadKey    = "deferred:payload"
	runningKey    = "deferred:running"
	revokeChannel = "deferred:revoke"
)

// claimScript moves due handles from the due set to the running hash and returns
// handle/transaction pairs.
var claimScript = redis.NewScript(`
local handles = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, tonumber(ARGV[2]))
local out = {}
for _, h in ipairs(handles) do
	redis.call('ZREM', KEYS[1], h)
	local tx = redis.call('HGET', KEYS[2], h)
	if tx then
		redis.call('HSET', KEYS[3], h, ARGV[1])
		table.insert(out, h)
		table.insert(out, tx)
	end
end
return out
`)

// requeueScript returns handles claimed at or before ARGV[1] to the due set, scored ARGV[2].
var requeueScript = redis.NewScript(`
local entries = redis.call('HGETALL', KEYS[1])
local count = 0
for i = 1, #entries, 2 do
	local h = entries[i]
	if tonumber(entries[i + 1]) <= tonumber(ARGV[1]) then
		redis.call('HDEL', KEYS[1], h)
		redis.call('ZADD', KEYS[2], ARGV[2], h)
		count = count + 1
	end
end
return count
`)

// RedisScheduler keeps the schedule in Redis: a sorted set of handles scored by due time,
// a hash from handle to transaction ID, and a hash of claimed handles.
// Workers poll it with Claim and acknowledge with Complete.
type RedisScheduler struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisScheduler creates a new RedisScheduler.
func NewRedisScheduler(client *redis.Client, logger *slog.Logger) *RedisScheduler {
	return &RedisScheduler{client: client, logger: logger}
}

// Make sure we conform to the interface
var _ Scheduler = (*RedisScheduler)(nil)

func (s *RedisScheduler) Schedule(ctx context.Context, transactionID string, dueAt time.Time) (string, error) {
	handle := uuid.New().String()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, payloadKey, handle, transactionID)
		pipe.ZAdd(ctx, dueKey, redis.Z{Score: float64(dueAt.UnixMilli()), Member: handle})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to schedule transaction %s: %w", transactionID, err)
	}

	s.logger.Debug("scheduled job", "handle", handle, "transaction_id", transactionID, "due_at", dueAt)
	return handle, nil
}

func (s *RedisScheduler) Revoke(ctx context.Context, handle string, terminate bool) (RevokeOutcome, error) {
	removed, err := s.client.ZRem(ctx, dueKey, handle).Result()
	if err != nil {
		return RevokeUnknown, fmt.Errorf("failed to revoke job %s: %w", handle, err)
	}
	if removed == 1 {
		if err := s.client.HDel(ctx, payloadKey, handle).Err(); err != nil {
			s.logger.Warn("failed to drop payload of revoked job", "handle", handle, "error", err)
		}
		return RevokeRevoked, nil
	}

	running, err := s.client.HExists(ctx, runningKey, handle).Result()
	if err != nil {
		return RevokeUnknown, fmt.Errorf("failed to look up job %s: %w", handle, err)
	}
	if !running {
		return RevokeUnknown, nil
	}

	if terminate {
		if err := s.client.Publish(ctx, revokeChannel, handle).Err(); err != nil {
			return RevokeAlreadyRunning, fmt.Errorf("failed to publish interrupt for job %s: %w", handle, err)
		}
	}
	return RevokeAlreadyRunning, nil
}

// Claim hands out at most limit jobs that are due at now. Claimed jobs stay in the running
// hash until Complete is called or RequeueStale puts them back.
func (s *RedisScheduler) Claim(ctx context.Context, now time.Time, limit int) ([]Job, error) {
	if limit <= 0 {
		return nil, nil
	}
	res, err := claimScript.Run(ctx, s.client,
		[]string{dueKey, payloadKey, runningKey},
		now.UnixMilli(), limit,
	).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to claim due jobs: %w", err)
	}

	jobs := make([]Job, 0, len(res)/2)
	for i := 0; i+1 < len(res); i += 2 {
		jobs = append(jobs, Job{Handle: res[i], TransactionID: res[i+1]})
	}
	return jobs, nil
}

// Complete forgets a claimed job.
func (s *RedisScheduler) Complete(ctx context.Context, handle string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, runningKey, handle)
		pipe.HDel(ctx, payloadKey, handle)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to complete job %s: %w", handle, err)
	}
	return nil
}

// RequeueStale makes jobs claimed for longer than visibility due again. It returns how many
// jobs were put back.
func (s *RedisScheduler) RequeueStale(ctx context.Context, now time.Time, visibility time.Duration) (int, error) {
	cutoff := now.Add(-visibility).UnixMilli()
	n, err := requeueScript.Run(ctx, s.client,
		[]string{runningKey, dueKey},
		strconv.FormatInt(cutoff, 10), strconv.FormatInt(now.UnixMilli(), 10),
	).Int()
	if err != nil {
		return 0, fmt.Errorf("failed to requeue stale jobs: %w", err)
	}
	if n > 0 {
		s.logger.Warn("requeued stale jobs", "count", n)
	}
	return n, nil
}

// Interrupts streams the handles of running jobs whose revocation asked for termination.
// It returns once the subscription is active. The channel is closed when ctx is done.
func (s *RedisScheduler) Interrupts(ctx context.Context) (<-chan string, error) {
	sub := s.client.Subscribe(ctx, revokeChannel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe to interrupts: %w", err)
	}
	out := make(chan string)

	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
