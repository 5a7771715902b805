package bus

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCallTimeout is how long a Call waits for its response before
// rejecting with ErrTimeout.
const DefaultCallTimeout = 30 * time.Second

// WorkerPoolConfig holds configuration options for the worker pool.
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start.
	// If zero or negative, defaults to 1.
	WorkerCount int

	// CallTimeout bounds each Call. If zero, DefaultCallTimeout applies.
	CallTimeout time.Duration
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with reasonable defaults.
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount: 2,
		CallTimeout: DefaultCallTimeout,
	}
}

// WorkerPool delegates CPU-heavy messages to a pool of worker goroutines.
// Each call is tagged with a correlation id and awaited on its own reply
// channel, so in-flight calls never block each other.
type WorkerPool struct {
	dispatcher *Dispatcher
	requests   chan *Request
	timeout    time.Duration

	mu     sync.Mutex
	closed bool

	wg     sync.WaitGroup
	cancel context.CancelFunc

	logger *slog.Logger
}

// NewWorkerPool creates a worker pool that executes messages through the
// given dispatcher.
func NewWorkerPool(dispatcher *Dispatcher, config WorkerPoolConfig, log *slog.Logger) *WorkerPool {
	if dispatcher == nil {
		panic("dispatcher cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "bus_worker_pool"))

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		log.Warn("invalid worker count specified, using default",
			slog.Int("specified_count", config.WorkerCount),
			slog.Int("default_count", 1))
	}

	timeout := config.CallTimeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	pool := &WorkerPool{
		dispatcher: dispatcher,
		requests:   make(chan *Request),
		timeout:    timeout,
		cancel:     cancel,
		logger:     log,
	}

	pool.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go pool.worker(ctx, i)
	}

	return pool
}

// Call submits the message to the pool and waits for the response matching
// its correlation id. After the timeout the id is discarded and ErrTimeout
// returned; a late worker response is dropped, never delivered to a later
// call.
func (p *WorkerPool) Call(ctx context.Context, msg Message) (any, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	p.mu.Unlock()

	req := &Request{
		ID:        uuid.New(),
		Message:   msg,
		Reply:     make(chan Response, 1),
		CreatedAt: time.Now().UTC(),
	}

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case p.requests <- req:
	case <-timer.C:
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case resp := <-req.Reply:
		if resp.ID != req.ID {
			// A reply channel is per-request; an id mismatch means a worker
			// bug, not a stale response.
			p.logger.Error("correlation id mismatch",
				slog.String("want", req.ID.String()),
				slog.String("got", resp.ID.String()))
			return nil, ErrTimeout
		}
		return resp.Result, resp.Err
	case <-timer.C:
		p.logger.Warn("worker call timed out",
			slog.String("request_id", req.ID.String()),
			slog.String("kind", string(msg.Kind())))
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Stop shuts the pool down and waits for in-flight work to finish. Further
// Call invocations return ErrClosed.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
}

// worker pulls requests, runs them through the dispatcher and echoes the
// correlation id in the response. The reply channel is buffered so a worker
// never blocks on a caller that already timed out.
func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	log := p.logger.With(slog.Int("worker_id", id))
	log.Debug("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug("worker stopping")
			return
		case req := <-p.requests:
			result, err := p.dispatcher.Send(ctx, req.Message)
			req.Reply <- Response{ID: req.ID, Result: result, Err: err}
		}
	}
}
