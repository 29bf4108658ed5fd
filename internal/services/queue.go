package services

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	queueBatchSize     = 50
	queueFlushInterval = 500 * time.Millisecond
)

// ModerationQueue runs Moderate in the background for content ids scheduled
// after votes. An id already waiting is not queued twice.
type ModerationQueue struct {
	engine  *Engine
	logger  *slog.Logger
	queue   chan uint64
	pending map[uint64]bool
	mu      sync.Mutex

	flushInterval time.Duration
	done          chan struct{}
	cancel        context.CancelFunc
}

func NewModerationQueue(engine *Engine, logger *slog.Logger, size int) *ModerationQueue {
	if logger == nil {
		logger = slog.Default()
	}
	if size <= 0 {
		size = 1000
	}
	return &ModerationQueue{
		engine:        engine,
		logger:        logger,
		queue:         make(chan uint64, size),
		pending:       make(map[uint64]bool),
		flushInterval: queueFlushInterval,
	}
}

// Start launches the worker. It stops when ctx ends or Stop is called.
func (q *ModerationQueue) Start(ctx context.Context) {
	ctx, q.cancel = context.WithCancel(ctx)
	q.done = make(chan struct{})
	go q.worker(ctx)
}

// Stop cancels the worker and waits for it to drain what it already collected.
func (q *ModerationQueue) Stop() {
	if q.cancel == nil {
		return
	}
	q.cancel()
	<-q.done
}

// Schedule queues contentID without blocking. It reports false when the id was
// already pending or the queue is full.
func (q *ModerationQueue) Schedule(contentID uint64) bool {
	q.mu.Lock()
	if q.pending[contentID] {
		q.mu.Unlock()
		return false
	}
	q.pending[contentID] = true
	q.mu.Unlock()

	select {
	case q.queue <- contentID:
		return true
	default:
		q.mu.Lock()
		delete(q.pending, contentID)
		q.mu.Unlock()
		q.logger.Warn("moderation queue full, dropping content", "content_id", contentID)
		return false
	}
}

func (q *ModerationQueue) worker(ctx context.Context) {
	defer close(q.done)

	batch := make([]uint64, 0, queueBatchSize)
	ticker := time.NewTicker(q.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if len(batch) > 0 {
				q.processBatch(batch)
			}
			return
		case id := <-q.queue:
			batch = append(batch, id)
			if len(batch) >= queueBatchSize {
				q.processBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				q.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (q *ModerationQueue) processBatch(ids []uint64) {
	removed := 0
	for _, id := range ids {
		// Clear pending first so a vote landing during Moderate reschedules.
		q.mu.Lock()
		delete(q.pending, id)
		q.mu.Unlock()

		res, err := q.engine.Moderate(id)
		if err != nil {
			q.logger.Error("background moderation failed", "content_id", id, "error", err)
			continue
		}
		if res.Removed {
			removed++
		}
	}
	q.logger.Debug("moderation batch processed", "size", len(ids), "removed", removed)
}
