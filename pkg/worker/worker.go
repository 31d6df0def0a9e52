// Package worker runs due withdrawals claimed from the Redis schedule.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chris/scheduled-withdrawals/pkg/scheduler"
	"github.com/chris/scheduled-withdrawals/pkg/withdrawals"
	"golang.org/x/sync/errgroup"
)

// Queue is the polling side of a schedule.
type Queue interface {
	Claim(ctx context.Context, now time.Time, limit int) ([]scheduler.Job, error)
	Complete(ctx context.Context, handle string) error
	RequeueStale(ctx context.Context, now time.Time, visibility time.Duration) (int, error)
	Interrupts(ctx context.Context) (<-chan string, error)
}

// Executor runs a single withdrawal.
type Executor interface {
	Execute(ctx context.Context, txID string) error
}

// Reconciler resolves stalled withdrawals.
type Reconciler interface {
	Run(ctx context.Context) (withdrawals.Report, error)
}

// Config tunes the worker loop.
type Config struct {
	Concurrency       int
	PollInterval      time.Duration
	VisibilityTimeout time.Duration
	ReconcileInterval time.Duration
}

// Worker claims due jobs and executes them with bounded parallelism.
type Worker struct {
	queue      Queue
	executor   Executor
	reconciler Reconciler
	cfg        Config
	logger     *slog.Logger

	active  atomic.Int64
	mu      sync.Mutex
	running map[string]context.CancelCauseFunc
}

// New creates a new Worker. A nil reconciler disables reconciliation passes.
func New(queue Queue, executor Executor, reconciler Reconciler, cfg Config, logger *slog.Logger) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.VisibilityTimeout <= 0 {
		cfg.VisibilityTimeout = 5 * time.Minute
	}
	if cfg.ReconcileInterval <= 0 {
		cfg.ReconcileInterval = time.Minute
	}
	return &Worker{
		queue:      queue,
		executor:   executor,
		reconciler: reconciler,
		cfg:        cfg,
		logger:     logger,
		running:    make(map[string]context.CancelCauseFunc),
	}
}

// Run polls until ctx is done and then waits for the executions in flight. Executions do not
// inherit the cancellation of ctx; only a revoke interrupts one, with withdrawals.ErrRevoked.
func (w *Worker) Run(ctx context.Context) error {
	interrupts, err := w.queue.Interrupts(ctx)
	if err != nil {
		return err
	}
	go w.handleInterrupts(interrupts)

	jobs := new(errgroup.Group)
	jobs.SetLimit(w.cfg.Concurrency)

	poll := time.NewTicker(w.cfg.PollInterval)
	defer poll.Stop()
	requeue := time.NewTicker(w.cfg.VisibilityTimeout / 2)
	defer requeue.Stop()
	reconcile := time.NewTicker(w.cfg.ReconcileInterval)
	defer reconcile.Stop()

	w.logger.Info("worker started", "concurrency", w.cfg.Concurrency, "poll_interval", w.cfg.PollInterval)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker stopping, waiting for running executions")
			return jobs.Wait()
		case <-poll.C:
			w.poll(ctx, jobs)
		case <-requeue.C:
			if _, err := w.queue.RequeueStale(ctx, time.Now(), w.cfg.VisibilityTimeout); err != nil {
				w.logger.Error("failed to requeue stale jobs", "error", err)
			}
		case <-reconcile.C:
			if w.reconciler == nil {
				continue
			}
			if _, err := w.reconciler.Run(ctx); err != nil {
				w.logger.Error("reconciliation pass failed", "error", err)
			}
		}
	}
}

func (w *Worker) poll(ctx context.Context, jobs *errgroup.Group) {
	free := w.cfg.Concurrency - int(w.active.Load())
	if free <= 0 {
		return
	}
	claimed, err := w.queue.Claim(ctx, time.Now(), free)
	if err != nil {
		w.logger.Error("failed to claim jobs", "error", err)
		return
	}

	for _, job := range claimed {
		job := job
		w.active.Add(1)
		jobs.Go(func() error {
			defer w.active.Add(-1)
			w.execute(ctx, job)
			return nil
		})
	}
}

func (w *Worker) execute(parent context.Context, job scheduler.Job) {
	ctx, cancel := context.WithCancelCause(context.WithoutCancel(parent))
	w.track(job.Handle, cancel)
	defer w.untrack(job.Handle)
	defer cancel(nil)

	if err := w.executor.Execute(ctx, job.TransactionID); err != nil {
		w.logger.Error("withdrawal execution failed", "handle", job.Handle, "transaction_id", job.TransactionID, "error", err)
	}

	// The job is acknowledged whatever the outcome; unresolved withdrawals are left to the reconciler.
	if err := w.queue.Complete(context.WithoutCancel(parent), job.Handle); err != nil {
		w.logger.Error("failed to complete job", "handle", job.Handle, "error", err)
	}
}

func (w *Worker) handleInterrupts(interrupts <-chan string) {
	for handle := range interrupts {
		w.mu.Lock()
		cancel, ok := w.running[handle]
		w.mu.Unlock()
		if ok {
			w.logger.Warn("interrupting execution", "handle", handle)
			cancel(withdrawals.ErrRevoked)
		}
	}
}

func (w *Worker) track(handle string, cancel context.CancelCauseFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.running[handle] = cancel
}

func (w *Worker) untrack(handle string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.running, handle)
}
