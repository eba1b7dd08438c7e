package scheduler

import (
	"container/heap"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/darkroom"
)

// idleSleep bounds idle CPU usage while keeping submit-to-start latency
// low when the queue is empty.
const idleSleep = time.Millisecond

// Executor runs one task to completion. The default EngineExecutor
// covers the built-in task kinds; tests and embedders can substitute
// their own.
type Executor interface {
	Execute(t Task) TaskResult
}

// Scheduler is a stable priority queue drained by a fixed pool of worker
// goroutines. Submit enqueues and returns immediately; completed work is
// emitted on a buffered results channel in completion order.
//
// Scheduler is safe for concurrent use.
type Scheduler struct {
	exec    Executor
	workers int

	mu     sync.Mutex
	queue  taskHeap
	nextID uint64

	results chan TaskResult
	stop    chan struct{}
	wg      sync.WaitGroup
	stopped atomic.Bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithWorkers sets the worker count. Values below 1 keep the default of
// max(available parallelism, 2).
func WithWorkers(n int) Option {
	return func(s *Scheduler) {
		if n >= 1 {
			s.workers = n
		}
	}
}

// WithResultBuffer sets the capacity of the results channel.
func WithResultBuffer(n int) Option {
	return func(s *Scheduler) {
		if n >= 1 {
			s.results = make(chan TaskResult, n)
		}
	}
}

// New creates a scheduler and starts its workers. The caller must call
// Shutdown to stop them.
func New(exec Executor, opts ...Option) *Scheduler {
	workers := runtime.NumCPU()
	if workers < 2 {
		workers = 2
	}

	s := &Scheduler{
		exec:    exec,
		workers: workers,
		results: make(chan TaskResult, 1024),
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(s.workers)
	for i := 0; i < s.workers; i++ {
		go s.worker()
	}

	darkroom.Logger().Debug("scheduler started", "workers", s.workers)
	return s
}

// Submit enqueues a task and returns its id immediately. The id is
// unique and monotonically increasing across the scheduler's lifetime.
// Submitting after Shutdown returns 0 and drops the task.
func (s *Scheduler) Submit(t Task, priority Priority) uint64 {
	if s.stopped.Load() {
		return 0
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	heap.Push(&s.queue, &prioritizedTask{task: t, priority: priority, id: id})
	s.mu.Unlock()
	return id
}

// TryRecvResult returns at most one pending result without blocking.
func (s *Scheduler) TryRecvResult() (TaskResult, bool) {
	select {
	case res, ok := <-s.results:
		return res, ok
	default:
		return TaskResult{}, false
	}
}

// RecvResult blocks until a result is available. It returns ok=false
// once the scheduler has shut down and all results have been drained.
func (s *Scheduler) RecvResult() (TaskResult, bool) {
	res, ok := <-s.results
	return res, ok
}

// Results exposes the completion channel for select-based consumers.
// The channel is closed after Shutdown.
func (s *Scheduler) Results() <-chan TaskResult {
	return s.results
}

// Cancel removes a not-yet-started task from the queue. It has no
// effect if the task is already running or completed; cancellation is
// best-effort, not preemptive. Returns true if the task was removed.
func (s *Scheduler) Cancel(taskID uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, pt := range s.queue {
		if pt.id == taskID {
			heap.Remove(&s.queue, i)
			return true
		}
	}
	return false
}

// ClearQueue discards all pending (not in-flight) work and returns the
// number of tasks dropped.
func (s *Scheduler) ClearQueue() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.queue)
	s.queue = s.queue[:0]
	return n
}

// QueueSize returns the number of pending tasks.
func (s *Scheduler) QueueSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Shutdown signals all workers to stop after their current task, waits
// for them, and closes the results channel. Pending queued tasks are
// discarded. Shutdown is safe to call multiple times.
func (s *Scheduler) Shutdown() {
	if !s.stopped.CompareAndSwap(false, true) {
		return
	}
	close(s.stop)
	s.wg.Wait()
	close(s.results)

	s.mu.Lock()
	s.queue = s.queue[:0]
	s.mu.Unlock()
}

// worker loops: pop the highest-priority task, execute it, emit the
// result. An empty queue sleeps briefly before retrying. The lock is
// held only around the pop, never across execution.
func (s *Scheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		s.mu.Lock()
		var pt *prioritizedTask
		if s.queue.Len() > 0 {
			pt = heap.Pop(&s.queue).(*prioritizedTask)
		}
		s.mu.Unlock()

		if pt == nil {
			select {
			case <-s.stop:
				return
			case <-time.After(idleSleep):
			}
			continue
		}

		res := s.exec.Execute(pt.task)
		res.TaskID = pt.id
		res.Task = pt.task
		if res.Err != nil {
			darkroom.Logger().Warn("task failed",
				"kind", pt.task.Kind.String(), "path", pt.task.Path, "error", res.Err)
		}

		select {
		case s.results <- res:
		case <-s.stop:
			return
		}
	}
}
