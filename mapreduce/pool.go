package mapreduce

import (
	"fmt"
	"runtime"
	"sync"
)

const poolDebug = 0

func poolDPrintf(format string, a ...interface{}) (n int, err error) {
	if poolDebug > 0 {
		n, err = fmt.Printf(format, a...)
	}
	return
}

// MaxWorkers bounds the size of a Pool.
const MaxWorkers = 1 << 16

// Architecture:
//
// A Pool owns a fixed set of worker goroutines, each running its own
// performer loop. Tasks are handed to whichever worker is idle over a
// single unbuffered channel, so Submit blocks while every worker is
// busy. Each performer serializes everything that touches its own
// state (the task it is running and its completed-task count), in
// the same way a Worker serializes its inbound RPCs.
//
// Wait is the barrier: it joins every task submitted so far and
// reports the first failure. Once a task has failed, Submit refuses
// new work and returns that failure.
//
// Close closes the termination channel and joins the workers. It
// must be called on every exit path; deferring it right after
// NewPool is the expected use.
//
// Submit and Wait are meant to be called from a single coordinating
// goroutine.

type poolWorker struct {
	id        int
	completed int // owned by the performer goroutine
	numReq    chan bool
	numRes    chan int
}

type Pool struct {
	size        int
	jobs        chan func() error
	term        chan bool
	closeOnce   sync.Once
	workersDone sync.WaitGroup
	pending     sync.WaitGroup
	workers     []*poolWorker

	mu     sync.Mutex
	err    error     // first task failure
	failed chan bool // closed when err is set
}

// NewPool
//
// EFFECTS:
//
//	starts a pool of size workers. A size of zero or less means one
//	worker per available CPU. Sizes above MaxWorkers are rejected
//	with ErrPoolSize.
func NewPool(size int) (*Pool, error) {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	if size > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrPoolSize, size, MaxWorkers)
	}

	p := new(Pool)
	p.size = size
	p.jobs = make(chan func() error)
	p.term = make(chan bool)
	p.failed = make(chan bool)

	p.workersDone.Add(size)
	for i := 0; i < size; i++ {
		w := &poolWorker{
			id:     i,
			numReq: make(chan bool),
			numRes: make(chan int),
		}
		p.workers = append(p.workers, w)
		go p.performer(w)
	}
	poolDPrintf("pool started with %d workers\n", size)

	return p, nil
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Pool.performer -- run tasks handed to this worker one at a time
// Terminates on closing of the term channel
func (p *Pool) performer(w *poolWorker) {
	defer p.workersDone.Done()

	for {
		select {
		case task := <-p.jobs:
			p.run(w, task)
			w.completed += 1
		case <-w.numReq:
			w.numRes <- w.completed
		case <-p.term:
			poolDPrintf("worker %d exiting after %d tasks\n", w.id, w.completed)
			return
		}
	}
}

func (p *Pool) run(w *poolWorker, task func() error) {
	defer p.pending.Done()
	defer func() {
		if r := recover(); r != nil {
			p.fail(&TaskPanic{Worker: w.id, Value: r})
		}
	}()

	if err := task(); err != nil {
		p.fail(err)
	}
}

func (p *Pool) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err == nil {
		poolDPrintf("pool failed: %v\n", err)
		p.err = err
		close(p.failed)
	}
}

// Err returns the first task failure, or nil.
func (p *Pool) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Submit hands task to an idle worker, blocking until one is free.
// The task is not run if the pool has already failed or been closed.
func (p *Pool) Submit(task func() error) error {
	if err := p.Err(); err != nil {
		return err
	}

	p.pending.Add(1)
	select {
	case p.jobs <- task:
		return nil
	case <-p.failed:
		p.pending.Done()
		return p.Err()
	case <-p.term:
		p.pending.Done()
		return ErrPoolClosed
	}
}

// Wait blocks until every submitted task has returned, then reports
// the first failure among them.
func (p *Pool) Wait() error {
	p.pending.Wait()
	return p.Err()
}

// NumJobs returns the number of tasks each worker has completed.
func (p *Pool) NumJobs() []int {
	counts := make([]int, len(p.workers))
	for i, w := range p.workers {
		select {
		case w.numReq <- true:
			counts[i] = <-w.numRes
		case <-p.term:
			// Performers have exited or are about to; their counts
			// are final once workersDone drains.
			p.workersDone.Wait()
			counts[i] = w.completed
		}
	}
	return counts
}

// Close stops the workers and waits for them to exit. Tasks already
// running are allowed to finish. Close may be called more than once.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.term)
	})
	p.workersDone.Wait()
}
