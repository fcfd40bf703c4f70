package asyncrt

import "sync"

// WorkerTask is a unit of blocking or CPU-bound work run off the loop
// thread. Run executes on a worker goroutine and its return value is
// delivered back to the loop as the completion IOResult.
type WorkerTask struct {
	Run func() IOResult
}

type workerJob struct {
	token IdentityToken
	task  WorkerTask
}

// workerPool is a fixed-size pool of goroutines executing WorkerTasks.
// Every field here is touched only by the loop's own goroutine: worker
// goroutines never read or write pool state directly, they only send
// completions over out and receive jobs over their own channel.
type workerPool struct {
	jobs    []chan workerJob
	free    []int // stack (LIFO) of idle worker indices
	pending []workerJob
	out     chan<- pollEvent
	logger  Logger
	wg      sync.WaitGroup
}

func newWorkerPool(n int, out chan<- pollEvent, logger Logger) *workerPool {
	p := &workerPool{
		jobs:   make([]chan workerJob, n),
		free:   make([]int, 0, n),
		out:    out,
		logger: logger,
	}
	for i := 0; i < n; i++ {
		p.jobs[i] = make(chan workerJob)
		p.free = append(p.free, i)
	}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go p.run(i)
	}
	return p
}

func (p *workerPool) run(id int) {
	defer p.wg.Done()
	for job := range p.jobs[id] {
		result := safeInvokeTask(p.logger, job.task)
		p.out <- pollEvent{kind: pollThreadpool, token: job.token, result: result, worker: id}
	}
}

// submit enqueues a task under token, dispatching it to a free worker
// immediately if one is available, otherwise appending it to the
// pending stack to be picked up by the next release.
func (p *workerPool) submit(token IdentityToken, task WorkerTask) {
	job := workerJob{token: token, task: task}
	if len(p.free) == 0 {
		p.pending = append(p.pending, job)
		return
	}
	p.dispatch(job)
}

func (p *workerPool) dispatch(job workerJob) {
	n := len(p.free)
	id := p.free[n-1]
	p.free = p.free[:n-1]
	p.jobs[id] <- job
}

// release marks worker id idle again. If work is queued it is handed
// the most recently queued entry (LIFO), keeping the worker busy
// rather than returning it to the free list only to be redispatched
// next tick.
func (p *workerPool) release(id int) {
	if n := len(p.pending); n > 0 {
		job := p.pending[n-1]
		p.pending = p.pending[:n-1]
		p.jobs[id] <- job
		return
	}
	p.free = append(p.free, id)
}

// pendingCount reports tasks queued but not yet dispatched to a worker.
func (p *workerPool) pendingCount() int {
	return len(p.pending)
}

// shutdown closes every worker's job channel and waits for them to
// exit. Jobs still queued in pending are dropped; a worker already
// running a job finishes it and sends its completion on out before
// exiting. submit and release must not be called afterwards.
func (p *workerPool) shutdown() {
	for _, ch := range p.jobs {
		close(ch)
	}
	p.wg.Wait()
}

// safeInvokeTask runs task.Run with panic containment: a panicking
// task downgrades to an Undefined result rather than taking down the
// worker goroutine, preserving the pending counter's correctness.
func safeInvokeTask(logger Logger, task WorkerTask) (result IOResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("worker task panicked", &PanicError{Value: r})
			result = Undefined()
		}
	}()
	return task.Run()
}
