package jobs

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestParallelForCoversEveryIndexOnce(t *testing.T) {
	for _, n := range []int{0, 1, 63, 64, 65, 1000} {
		s := NewScheduler(4, 16)
		hits := make([]int32, n)
		s.Run(n, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d index %d visited %d times", n, i, h)
			}
		}
	}
}

func TestParallelForWaitsForDependency(t *testing.T) {
	s := NewScheduler(2, 8)
	var stage atomic.Int32

	first := s.ParallelFor(32, nil, func(lo, hi int) {
		time.Sleep(time.Millisecond)
		stage.Store(1)
	})
	var sawFirst atomic.Bool
	sawFirst.Store(true)
	second := s.ParallelFor(32, first, func(lo, hi int) {
		if stage.Load() != 1 {
			sawFirst.Store(false)
		}
	})

	second.Complete()
	if !first.IsCompleted() {
		t.Error("dependency should be complete once the dependent job is")
	}
	if !sawFirst.Load() {
		t.Error("dependent job started before its dependency finished")
	}
}

func TestHandleCompleteIsIdempotent(t *testing.T) {
	s := NewScheduler(1, 0)
	h := s.ParallelFor(10, nil, func(lo, hi int) {})
	h.Complete()
	h.Complete()
	if !h.IsCompleted() {
		t.Error("handle should report completion")
	}

	var nilHandle *Handle
	nilHandle.Complete()
	if !nilHandle.IsCompleted() {
		t.Error("nil handle should count as completed")
	}
	if !Completed().IsCompleted() {
		t.Error("Completed() should be done")
	}
}

func TestParallelForIsAsync(t *testing.T) {
	s := NewScheduler(1, 1)
	release := make(chan struct{})
	h := s.ParallelFor(1, nil, func(lo, hi int) { <-release })

	select {
	case <-h.Done():
		t.Fatal("job completed before it was released")
	default:
	}
	close(release)
	h.Complete()
}

func TestDefaults(t *testing.T) {
	var s *Scheduler
	if s.batchSize() != DefaultBatchSize {
		t.Errorf("nil scheduler batch size: got %d", s.batchSize())
	}
	if s.workers() < 1 {
		t.Errorf("nil scheduler workers: got %d", s.workers())
	}
}

func TestPanicReachesCompleter(t *testing.T) {
	s := NewScheduler(2, 1)
	failed := s.ParallelFor(4, nil, func(lo, hi int) {
		if lo == 2 {
			panic("bad index")
		}
	})
	ran := false
	dependent := s.ParallelFor(4, failed, func(lo, hi int) { ran = true })

	for _, h := range []*Handle{failed, dependent} {
		func() {
			defer func() {
				err, ok := recover().(error)
				var pe *PanicError
				if !ok || !errors.As(err, &pe) || pe.Value != "bad index" {
					t.Errorf("expected PanicError(bad index), got %v", err)
				}
			}()
			h.Complete()
		}()
	}
	if ran {
		t.Error("dependent job ran after its dependency panicked")
	}
}
