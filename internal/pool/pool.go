// Package pool runs independent tasks on a fixed set of worker goroutines.
//
// Each worker owns a slot index in [0, Size()) that is passed to every task it
// runs, so per-worker resources such as a terminal line can be addressed
// without coordination. A failing task does not stop its siblings.
package pool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Submit after Wait was called.
var ErrClosed = errors.New("pool: closed")

// Task is a unit of work. slot identifies the worker running it.
type Task func(slot int) error

// Pool manages a fixed pool of goroutines.
type Pool struct {
	size     int
	workCh   chan Task
	wg       sync.WaitGroup
	closed   atomic.Bool
	submitMu sync.RWMutex

	errMu sync.Mutex
	err   error
	fails int
}

// New creates a pool with size workers. A size <= 0 uses GOMAXPROCS.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		size:   size,
		workCh: make(chan Task),
	}

	p.wg.Add(size)
	for slot := 0; slot < size; slot++ {
		go p.worker(slot)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

func (p *Pool) worker(slot int) {
	defer p.wg.Done()
	for task := range p.workCh {
		if err := run(slot, task); err != nil {
			p.record(err)
		}
	}
}

func run(slot int, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pool: task panicked: %v\n%s", r, debug.Stack())
		}
	}()
	return task(slot)
}

func (p *Pool) record(err error) {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	if p.err == nil {
		p.err = err
	}
	p.fails++
}

// Submit hands task to the next idle worker, blocking until one is free.
//
// Error conditions:
//   - Returns ErrClosed if Wait was already called
//   - Returns ctx.Err() if ctx is cancelled before a worker accepts the task
func (p *Pool) Submit(ctx context.Context, task Task) error {
	p.submitMu.RLock()
	defer p.submitMu.RUnlock()

	if p.closed.Load() {
		return ErrClosed
	}

	select {
	case p.workCh <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait stops accepting tasks, waits for all submitted tasks to finish and
// returns the first error in completion order.
func (p *Pool) Wait() error {
	if p.closed.CompareAndSwap(false, true) {
		p.submitMu.Lock()
		close(p.workCh)
		p.submitMu.Unlock()
	}
	p.wg.Wait()

	p.errMu.Lock()
	defer p.errMu.Unlock()
	return p.err
}

// Failures returns the number of tasks that returned an error so far.
func (p *Pool) Failures() int {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	return p.fails
}
