// Package parallel provides the bounded worker pool used to fan out
// independent per-pair distance computations.
package parallel

import (
	"fmt"
	"math"
	"sync"
)

// PanicHandler receives recovered panics from pool tasks. It runs on the
// worker goroutine, so it must be safe for concurrent use.
type PanicHandler func(recovered any)

// WorkerPool manages a fixed set of worker goroutines draining a shared
// task queue.
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	onPanic   PanicHandler
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // protects taskQueue from close during send
	closed    bool         // protected by mu
}

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum")

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// NewWorkerPool creates a pool with the given number of workers. A count of
// zero or less falls back to a single worker. Recovered task panics are
// passed to onPanic when set, otherwise swallowed; either way the worker
// survives.
func NewWorkerPool(workers int, onPanic PanicHandler) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2),
		onPanic:   onPanic,
	}

	pool.start()
	return pool, nil
}

func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		func() {
			defer func() {
				if r := recover(); r != nil && wp.onPanic != nil {
					wp.onPanic(r)
				}
			}()
			task()
		}()
	}
}

// Submit adds a task to the pool. Returns false if the pool has been closed.
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}

	wp.taskQueue <- task
	return true
}

// Close shuts down the pool and blocks until in-flight tasks finish.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Wait drains all submitted tasks and shuts the pool down.
func (wp *WorkerPool) Wait() {
	wp.Close()
}
