package scheduler

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// pool fixed set of workers draining a bounded queue
type pool struct {
	workers int
	queue   chan func()
	logger  *zap.Logger

	mu      sync.Mutex
	started bool
	closed  bool
	wg      sync.WaitGroup
}

func newPool(workers, queueSize int, logger *zap.Logger) *pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &pool{
		workers: workers,
		queue:   make(chan func(), queueSize),
		logger:  logger,
	}
}

func (p *pool) start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work(i)
	}
}

func (p *pool) work(id int) {
	defer p.wg.Done()
	for job := range p.queue {
		p.run(id, job)
	}
}

func (p *pool) run(id int, job func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("promotion worker panic",
				zap.Int("worker", id),
				zap.Any("panic", r),
			)
		}
	}()
	job()
}

// submit queues job without blocking. false means the queue is full or the pool is closed.
func (p *pool) submit(job func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	select {
	case p.queue <- job:
		return true
	default:
		return false
	}
}

// stop refuses new jobs, lets queued ones finish and waits for the workers until ctx is done
func (p *pool) stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
