package answerpipeline

import (
	"errors"
	"log"
	"sync"
)

// ErrQueueSaturated is returned by Submit when the task queue is full. The
// caller should tell the client to retry later rather than block.
var ErrQueueSaturated = errors.New("processing queue is saturated")

// Worker pool defaults, applied when NewWorkerPool gets non-positive values.
const (
	DefaultWorkers   = 5
	DefaultQueueSize = 100
)

// WorkerPool runs queued answer-processing tasks on a fixed set of
// goroutines with a bounded queue.
type WorkerPool struct {
	tasks chan func()
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewWorkerPool starts a pool with the given number of workers and queue
// capacity.
func NewWorkerPool(workers, queueSize int) *WorkerPool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	p := &WorkerPool{tasks: make(chan func(), queueSize)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	log.Printf("WorkerPool: started %d workers with queue capacity %d", workers, queueSize)
	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

// Submit enqueues a task without blocking. It returns ErrQueueSaturated when
// the queue is full and an error when the pool has been shut down.
func (p *WorkerPool) Submit(task func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.New("worker pool is shut down")
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrQueueSaturated
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish.
func (p *WorkerPool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	log.Println("WorkerPool: shut down")
}
