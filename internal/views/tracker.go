package views

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/angelmondragon/footballzones-backend/pkg/db/models"
	"github.com/angelmondragon/footballzones-backend/pkg/logger"
	"github.com/angelmondragon/footballzones-backend/pkg/metrics"
)

const (
	DefaultQueueSize    = 1024
	DefaultWorkers      = 4
	DefaultWriteTimeout = 5 * time.Second
)

type recorder interface {
	Record(ctx context.Context, event *models.ViewEvent) error
}

// Options tunes the tracker. Zero values fall back to the defaults.
type Options struct {
	QueueSize    int
	Workers      int
	WriteTimeout time.Duration
}

type job struct {
	ctx   context.Context
	event models.ViewEvent
}

// Tracker records views asynchronously. Failures never reach the caller.
type Tracker struct {
	store   recorder
	logg    *logger.Logger
	metrics *metrics.ViewMetrics
	timeout time.Duration

	queue  chan job
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewTracker starts the worker pool.
func NewTracker(store recorder, logg *logger.Logger, m *metrics.ViewMetrics, opts Options) (*Tracker, error) {
	if store == nil {
		return nil, errors.New("view store is required")
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	t := &Tracker{
		store:   store,
		logg:    logg,
		metrics: m,
		timeout: opts.WriteTimeout,
		queue:   make(chan job, opts.QueueSize),
	}
	t.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go t.work()
	}
	return t, nil
}

// Track enqueues ev. A full queue or a closed tracker drops the event.
func (t *Tracker) Track(ctx context.Context, ev Event) {
	j := job{ctx: context.WithoutCancel(ctx), event: ev.toModel()}

	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		t.drop(ctx, ev, "view tracker closed")
		return
	}
	select {
	case t.queue <- j:
		t.metrics.SetQueueDepth(len(t.queue))
	default:
		t.drop(ctx, ev, "view queue full")
	}
}

// Close stops accepting events and waits for queued ones to be written.
func (t *Tracker) Close(ctx context.Context) error {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.queue)
	}
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Tracker) work() {
	defer t.wg.Done()
	for j := range t.queue {
		t.metrics.SetQueueDepth(len(t.queue))
		t.write(j)
	}
}

func (t *Tracker) write(j job) {
	ctx, cancel := context.WithTimeout(j.ctx, t.timeout)
	defer cancel()

	event := j.event
	if err := t.store.Record(ctx, &event); err != nil {
		t.metrics.Inc(metrics.ViewOutcomeFailed)
		if t.logg != nil {
			logCtx := t.logg.WithArticleID(j.ctx, event.ArticleID.String())
			t.logg.Error(logCtx, "view.record_failed", err)
		}
		return
	}
	t.metrics.Inc(metrics.ViewOutcomeRecorded)
}

func (t *Tracker) drop(ctx context.Context, ev Event, reason string) {
	t.metrics.Inc(metrics.ViewOutcomeDropped)
	if t.logg == nil {
		return
	}
	t.logg.Warn(t.logg.WithArticleID(ctx, ev.ArticleID.String()), reason)
}
