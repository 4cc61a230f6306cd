// Package async runs eligibility scans on a small worker pool so the HTTP
// handler can return a task id immediately. The core scan itself stays
// strictly sequential; concurrency exists only across independent scans.
package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scholarfund/eligibility-scanner/internal/common"
)

// Job is one queued eligibility scan.
type Job struct {
	ScanID        uuid.UUID
	ApplicationID uuid.UUID
	SubmittedAt   time.Time
}

// Processor runs one scan job to completion.
type Processor interface {
	ProcessScan(ctx context.Context, job Job) error
}

// Queue is a bounded in-process work queue with a fixed worker pool.
type Queue struct {
	proc    Processor
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

// Option configures a Queue.
type Option func(*Queue)

func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

// WithScanTimeout bounds one scan's wall clock. The scan core has no
// internal cancellation; the timeout context cuts off OCR subprocesses and
// the job is marked failed.
func WithScanTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewQueue(proc Processor, logger *slog.Logger, opts ...Option) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		proc:    proc,
		logger:  logger,
		workers: 2,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 64),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("scan worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					err := q.proc.ProcessScan(ctx, job)
					cancel()

					if err != nil {
						q.logger.Error("scan failed", "worker_id", workerID, "scan_id", job.ScanID, "error", err)
					} else {
						q.logger.Info("scan processed", "worker_id", workerID, "scan_id", job.ScanID)
					}
				}

				q.logger.Info("scan worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

// Enqueue submits a job without blocking. Returns ErrQueueFull when the
// buffer is saturated so the caller can push back on the client.
func (q *Queue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return common.ErrInternal
	}
	select {
	case q.ch <- job:
		return nil
	default:
		return common.ErrQueueFull
	}
}

// Shutdown stops accepting jobs and waits for in-flight scans, bounded by
// ctx.
func (q *Queue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		q.logger.Warn("queue shutdown timed out with scans in flight")
	}
}
