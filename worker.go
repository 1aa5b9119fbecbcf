package beaverlog

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
	"github.com/pkg/errors"
)

const defaultQueueSize = 1024

// worker runs tasks one at a time in submission order. The goroutine is
// started on first use so destinations that are only driven by a parent
// (the rotating file's inner writers) never spawn one.
//
// Tasks submitted from the worker's own goroutine run inline, so an error
// handler that logs back through the same destination cannot wait on itself.
type worker struct {
	mu      sync.RWMutex
	once    sync.Once
	tasks   chan func()
	closed  bool
	wg      sync.WaitGroup
	size    int
	onPanic func(error)
	gid     int64
}

func newWorker(size int, onPanic func(error)) *worker {
	if size <= 0 {
		size = defaultQueueSize
	}
	return &worker{size: size, onPanic: onPanic}
}

func (w *worker) start() {
	w.once.Do(func() {
		w.tasks = make(chan func(), w.size)
		w.wg.Add(1)
		go w.loop()
	})
}

func (w *worker) loop() {
	defer w.wg.Done()
	atomic.StoreInt64(&w.gid, goid.Get())
	for task := range w.tasks {
		w.run(task)
	}
}

func (w *worker) run(task func()) {
	defer func() {
		if r := recover(); r != nil && w.onPanic != nil {
			w.onPanic(errors.Errorf("panic in destination task: %v", r))
		}
	}()
	task()
}

// enqueue submits task without waiting. It blocks while the queue is full
// and returns false once the worker is closed.
func (w *worker) enqueue(task func()) bool {
	ok, _ := w.submit(context.Background(), task)
	return ok
}

// inLoop reports whether the caller is the worker's own goroutine.
func (w *worker) inLoop() bool {
	id := atomic.LoadInt64(&w.gid)
	return id != 0 && id == goid.Get()
}

func (w *worker) submit(ctx context.Context, task func()) (bool, error) {
	if w.inLoop() {
		w.run(task)
		return true, nil
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return false, nil
	}
	w.start()
	select {
	case w.tasks <- task:
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// do submits task and waits for it to finish.
func (w *worker) do(task func()) bool {
	done := make(chan struct{})
	if !w.enqueue(func() {
		defer close(done)
		task()
	}) {
		return false
	}
	<-done
	return true
}

// barrier waits until every task submitted before it has run.
func (w *worker) barrier(ctx context.Context) error {
	done := make(chan struct{})
	ok, err := w.submit(ctx, func() { close(done) })
	if !ok {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close drains pending tasks and stops the goroutine.
func (w *worker) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	if w.tasks != nil {
		close(w.tasks)
	}
	w.mu.Unlock()
	if !w.inLoop() {
		w.wg.Wait()
	}
}
