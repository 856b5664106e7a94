package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Job func(ctx context.Context)

const (
	defaultQueueDepth  = 16
	defaultIdleTimeout = time.Minute
)

var ErrQueueClosed = errors.New("chat queue closed")

// ChatQueue runs jobs one at a time per chat. Each active chat gets its own
// worker goroutine; a shared semaphore caps how many chats run at once. A
// worker that stays idle for idleTimeout exits and drops its map entry.
type ChatQueue struct {
	ctx         context.Context
	cancel      context.CancelFunc
	sem         chan struct{}
	depth       int
	idleTimeout time.Duration
	logger      *zap.Logger

	mu      sync.Mutex
	closed  bool
	workers map[int64]*worker
	wg      sync.WaitGroup
}

type worker struct {
	jobs chan Job
	// senders counts Enqueue calls holding this worker; guarded by ChatQueue.mu.
	senders int
}

func NewChatQueue(parent context.Context, maxConcurrency int, logger *zap.Logger) *ChatQueue {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	return &ChatQueue{
		ctx:         ctx,
		cancel:      cancel,
		sem:         make(chan struct{}, maxConcurrency),
		depth:       defaultQueueDepth,
		idleTimeout: defaultIdleTimeout,
		logger:      logger,
		workers:     make(map[int64]*worker),
	}
}

// Enqueue blocks until the chat's worker accepts the job, ctx is done, or
// the queue is closed. Jobs of one chat run in the order they were accepted.
func (q *ChatQueue) Enqueue(ctx context.Context, chatID int64, job Job) error {
	if ctx == nil {
		ctx = q.ctx
	}
	w, err := q.acquire(chatID)
	if err != nil {
		return err
	}
	defer q.release(w)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-q.ctx.Done():
		return ErrQueueClosed
	case w.jobs <- job:
		return nil
	}
}

// Workers reports how many chats currently hold a worker.
func (q *ChatQueue) Workers() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.workers)
}

// Close stops every worker and waits for running jobs to return.
func (q *ChatQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.cancel()
	q.mu.Unlock()

	q.wg.Wait()
}

func (q *ChatQueue) acquire(chatID int64) (*worker, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || q.ctx.Err() != nil {
		return nil, ErrQueueClosed
	}

	w, ok := q.workers[chatID]
	if !ok {
		w = &worker{jobs: make(chan Job, q.depth)}
		q.workers[chatID] = w
		q.wg.Add(1)
		go q.run(chatID, w)
	}
	w.senders++
	return w, nil
}

func (q *ChatQueue) release(w *worker) {
	q.mu.Lock()
	w.senders--
	q.mu.Unlock()
}

// retire removes the worker if nobody is about to hand it a job.
func (q *ChatQueue) retire(chatID int64, w *worker) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(w.jobs) > 0 || w.senders > 0 {
		return false
	}
	if q.workers[chatID] == w {
		delete(q.workers, chatID)
	}
	return true
}

func (q *ChatQueue) run(chatID int64, w *worker) {
	defer q.wg.Done()

	idle := time.NewTimer(q.idleTimeout)
	defer idle.Stop()

	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-w.jobs:
			select {
			case q.sem <- struct{}{}:
			case <-q.ctx.Done():
				return
			}
			q.execute(chatID, job)
			<-q.sem
			idle.Reset(q.idleTimeout)
		case <-idle.C:
			if q.retire(chatID, w) {
				q.logger.Debug("[ChatQueue.run] idle worker retired", zap.Int64("chat_id", chatID))
				return
			}
			idle.Reset(q.idleTimeout)
		}
	}
}

func (q *ChatQueue) execute(chatID int64, job Job) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("[ChatQueue.execute] job panicked", zap.Int64("chat_id", chatID), zap.Any("panic", r))
		}
	}()
	job(q.ctx)
}
