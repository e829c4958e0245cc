package notify

import (
	"context"
	"errors"
	"time"

	"github.com/samvad-hq/visajobs/internal/domain"
	"github.com/samvad-hq/visajobs/internal/logger"
)

// ErrQueueFull is returned when a batch cannot be queued without blocking.
var ErrQueueFull = errors.New("notification queue is full")

const (
	defaultQueueSize    = 16
	defaultBatchTimeout = 30 * time.Second
	defaultDrainTimeout = 30 * time.Second
)

// BatchNotifier delivers one batch of listings.
type BatchNotifier interface {
	Notify(ctx context.Context, jobs []domain.Job) error
}

// Queue hands listings to a BatchNotifier on a background goroutine, so
// callers return before any publisher is contacted.
type Queue struct {
	next         BatchNotifier
	batches      chan []domain.Job
	batchTimeout time.Duration
	drainTimeout time.Duration
	log          logger.Logger
}

// NewQueue buffers up to size batches. Non-positive sizes use the default.
func NewQueue(next BatchNotifier, size int, log logger.Logger) *Queue {
	if size <= 0 {
		size = defaultQueueSize
	}
	return &Queue{
		next:         next,
		batches:      make(chan []domain.Job, size),
		batchTimeout: defaultBatchTimeout,
		drainTimeout: defaultDrainTimeout,
		log:          logger.Ensure(log),
	}
}

// Notify enqueues a copy of jobs and never blocks.
func (q *Queue) Notify(_ context.Context, jobs []domain.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	batch := make([]domain.Job, len(jobs))
	copy(batch, jobs)

	select {
	case q.batches <- batch:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run delivers queued batches until ctx is cancelled, then drains what is
// left. A batch in flight is not interrupted by cancellation; each one is
// bounded by its own timeout instead.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			q.drain(ctx)
			return nil
		case batch := <-q.batches:
			bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), q.batchTimeout)
			q.deliver(bctx, batch)
			cancel()
		}
	}
}

func (q *Queue) drain(parent context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), q.drainTimeout)
	defer cancel()

	for {
		select {
		case batch := <-q.batches:
			q.deliver(ctx, batch)
		default:
			return
		}
	}
}

func (q *Queue) deliver(ctx context.Context, batch []domain.Job) {
	if err := q.next.Notify(ctx, batch); err != nil {
		q.log.WarnObj("listing notification failed", "notify_error", err.Error())
	}
}
