package page

import (
	"context"
	"sync"
)

// task is a queued unit of work run on the page's dispatch thread.
type task func()

// eventLoop queues tasks from any goroutine and runs them one at a time in
// arrival order.
type eventLoop struct {
	tasks []task
	mu    sync.Mutex
	wake  chan struct{}
}

// newEventLoop creates a new event loop.
func newEventLoop() *eventLoop {
	return &eventLoop{
		wake: make(chan struct{}, 1),
	}
}

// queueTask adds a task to the end of the queue.
func (el *eventLoop) queueTask(t task) {
	el.mu.Lock()
	el.tasks = append(el.tasks, t)
	el.mu.Unlock()

	select {
	case el.wake <- struct{}{}:
	default:
	}
}

// next pops the oldest task, or returns nil when the queue is empty.
func (el *eventLoop) next() task {
	el.mu.Lock()
	defer el.mu.Unlock()
	if len(el.tasks) == 0 {
		return nil
	}
	t := el.tasks[0]
	el.tasks[0] = nil
	el.tasks = el.tasks[1:]
	return t
}

// runOnce executes one task through run. Returns true if a task was executed.
func (el *eventLoop) runOnce(run func(task)) bool {
	t := el.next()
	if t == nil {
		return false
	}
	run(t)
	return true
}

// drain executes tasks until the queue is empty, including tasks queued while
// draining. It returns the number of tasks executed.
func (el *eventLoop) drain(run func(task)) int {
	n := 0
	for el.runOnce(run) {
		n++
	}
	return n
}

// run executes tasks as they arrive until ctx is done.
func (el *eventLoop) run(ctx context.Context, run func(task)) error {
	for {
		el.drain(run)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-el.wake:
		}
	}
}

// hasPending returns true if there are any queued tasks.
func (el *eventLoop) hasPending() bool {
	el.mu.Lock()
	defer el.mu.Unlock()
	return len(el.tasks) > 0
}

// clear removes all pending tasks.
func (el *eventLoop) clear() {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.tasks = nil
}
