package threading

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Status is a worker's published lifecycle state (spec §5: "A channel
// worker may be cancelled by setting a per-thread status to FINISHED
// only after publishing its results; there is no mid-decode
// cancellation").
type Status int32

const (
	StatusRunning Status = iota
	StatusFinished
)

// Worker tracks one dispatched task's status, settable concurrently by
// the pool and readable by the caller.
type Worker struct {
	status atomic.Int32
}

// Status returns the worker's current published status.
func (w *Worker) Status() Status { return Status(w.status.Load()) }

// finish marks the worker FINISHED. Called by Pool.Run only after the
// task function returns, so results are always published before
// cancellation becomes observable.
func (w *Worker) finish() { w.status.Store(int32(StatusFinished)) }

// ReservedCores is subtracted from runtime.NumCPU() when no explicit
// worker limit is given (spec §4.5: "bounded by available cores minus a
// reservation").
const ReservedCores = 1

// Pool bounds concurrent task execution to a fixed number of in-flight
// goroutines, the data-matrix engine's "one worker per channel" launch
// discipline (spec §4.5: "Launch one worker per channel (bounded by
// available cores minus a reservation)").
type Pool struct {
	sem    chan struct{}
	parent *Globals
}

// NewPool returns a pool that runs at most maxConcurrent tasks at once.
// maxConcurrent <= 0 defaults to runtime.NumCPU()-ReservedCores (at
// least 1). parent's globals are propagated to every dispatched task
// (spec §5 worker-launch propagation).
func NewPool(maxConcurrent int, parent *Globals) *Pool {
	if maxConcurrent <= 0 {
		maxConcurrent = runtime.NumCPU() - ReservedCores
		if maxConcurrent < 1 {
			maxConcurrent = 1
		}
	}

	return &Pool{sem: make(chan struct{}, maxConcurrent), parent: parent}
}

// Task is one unit of work dispatched into the pool; it receives its
// own propagated Globals and a Worker handle to publish completion
// through.
type Task func(g *Globals, w *Worker)

// Run launches tasks concurrently (bounded by the pool's concurrency
// limit) and blocks until every task has returned, publishing each
// task's FINISHED status only after its function returns (spec §5, §4.5
// "After all workers join").
func (p *Pool) Run(tasks []Task) []*Worker {
	workers := make([]*Worker, len(tasks))
	var wg sync.WaitGroup

	for i, task := range tasks {
		w := &Worker{}
		workers[i] = w

		wg.Add(1)
		go func(task Task, w *Worker) {
			defer wg.Done()

			p.sem <- struct{}{}
			defer func() { <-p.sem }()

			g := p.parent
			if g != nil {
				g = g.Propagate()
			}

			task(g, w)
			w.finish()
		}(task, w)
	}

	wg.Wait()

	return workers
}
