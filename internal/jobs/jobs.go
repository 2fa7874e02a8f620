// Package jobs runs fork-join parallel-for work with dependency handles.
//
// ParallelFor returns immediately. The work starts once its dependency has
// completed, is cut into batches, and the batches are drained by at most
// Workers goroutines. Callers join with Handle.Complete.
package jobs

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize is the number of indices a worker claims at a time.
const DefaultBatchSize = 64

// Handle tracks one scheduled job.
type Handle struct {
	done chan struct{}
	err  error // recovered panic, set before done is closed
}

// PanicError carries a panic raised inside a job to the goroutine that
// completes its handle.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("jobs: panic in job: %v", e.Value)
}

// Completed returns a handle that is already done.
func Completed() *Handle {
	h := &Handle{done: make(chan struct{})}
	close(h.done)
	return h
}

// Complete blocks until the job and everything it depends on has finished.
// It is safe to call more than once and on a nil handle. A panic raised by
// the job or one of its dependencies is re-raised here as a *PanicError.
func (h *Handle) Complete() {
	if err := h.wait(); err != nil {
		panic(err)
	}
}

func (h *Handle) wait() error {
	if h == nil {
		return nil
	}
	<-h.done
	return h.err
}

// IsCompleted reports whether the job has finished without blocking.
func (h *Handle) IsCompleted() bool {
	if h == nil {
		return true
	}
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Done exposes the completion channel for select loops.
func (h *Handle) Done() <-chan struct{} {
	if h == nil {
		return Completed().done
	}
	return h.done
}

// Scheduler fans work out over a bounded number of goroutines.
type Scheduler struct {
	Workers   int // <= 0 means GOMAXPROCS
	BatchSize int // <= 0 means DefaultBatchSize
}

// NewScheduler returns a scheduler with the given limits.
func NewScheduler(workers, batchSize int) *Scheduler {
	return &Scheduler{Workers: workers, BatchSize: batchSize}
}

func (s *Scheduler) workers() int {
	if s == nil || s.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return s.Workers
}

func (s *Scheduler) batchSize() int {
	if s == nil || s.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return s.BatchSize
}

// ParallelFor schedules fn over [0, n) in half-open batches [lo, hi) once dep
// has completed. fn must not touch indices outside its batch. A nil dep means
// no dependency. If dep panicked, fn never runs and the handle carries the
// same panic.
func (s *Scheduler) ParallelFor(n int, dep *Handle, fn func(lo, hi int)) *Handle {
	h := &Handle{done: make(chan struct{})}
	batch := s.batchSize()
	workers := s.workers()

	go func() {
		defer close(h.done)
		if h.err = dep.wait(); h.err != nil || n <= 0 {
			return
		}

		batches := (n + batch - 1) / batch
		var next atomic.Int64

		var g errgroup.Group
		for w := 0; w < min(workers, batches); w++ {
			g.Go(func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = &PanicError{Value: r}
					}
				}()
				for {
					b := int(next.Add(1)) - 1
					if b >= batches {
						return nil
					}
					lo := b * batch
					fn(lo, min(lo+batch, n))
				}
			})
		}
		h.err = g.Wait()
	}()

	return h
}

// Run executes fn over [0, n) and waits for it.
func (s *Scheduler) Run(n int, fn func(lo, hi int)) {
	s.ParallelFor(n, nil, fn).Complete()
}
