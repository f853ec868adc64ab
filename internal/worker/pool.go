package worker

import (
	"context"
	"sync"
	"sync/atomic"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// JobFunc adapts a function to the Job interface
type JobFunc func(ctx context.Context) Result

// Execute calls f(ctx)
func (f JobFunc) Execute(ctx context.Context) Result {
	return f(ctx)
}

// ErrorResult is the result recorded for a job that never ran
type ErrorResult struct {
	Err error
}

// GetError returns the recorded error
func (r *ErrorResult) GetError() error {
	return r.Err
}

type task struct {
	index int
	job   Job
}

type outcome struct {
	index  int
	result Result
}

// Pool manages a pool of workers that execute jobs concurrently.
// Results are returned in submission order.
type Pool struct {
	workers    int
	jobQueue   chan task
	results    chan outcome
	submitted  atomic.Int64
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a worker pool bound to ctx. capacity sizes the job and
// result buffers; zero means twice the worker count.
func NewPool(ctx context.Context, workers, capacity int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if capacity <= 0 {
		capacity = workers * 2
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan task, capacity),
		results:    make(chan outcome, capacity),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the worker pool
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case t, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := t.job.Execute(p.ctx)
			select {
			case p.results <- outcome{index: t.index, result: result}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. It reports false when the pool is already cancelled.
func (p *Pool) Submit(job Job) bool {
	select {
	case <-p.ctx.Done():
		return false
	default:
	}

	index := int(p.submitted.Add(1) - 1)
	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- task{index: index, job: job}:
		return true
	}
}

// Wait closes the queue, waits for the workers and returns one slot per
// submitted job. Jobs cut short by cancellation leave a nil slot.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)

	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	results := make([]Result, p.submitted.Load())
	for o := range p.results {
		if o.index < len(results) {
			results[o.index] = o.result
		}
	}

	p.cancelFunc()
	return results
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}

// Run executes jobs on at most workers goroutines and returns their results
// in job order. A job that never ran because ctx ended gets an ErrorResult.
func Run(ctx context.Context, workers int, jobs []Job) []Result {
	if len(jobs) == 0 {
		return []Result{}
	}

	pool := NewPool(ctx, workers, len(jobs))
	pool.Start()

	for _, job := range jobs {
		if !pool.Submit(job) {
			break
		}
	}

	results := pool.Wait()
	out := make([]Result, len(jobs))
	for i := range out {
		if i < len(results) && results[i] != nil {
			out[i] = results[i]
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		out[i] = &ErrorResult{Err: err}
	}
	return out
}
