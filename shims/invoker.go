package shims

import (
	"context"
	"errors"

	"github.com/reusee/turtleplay/syncs"
	"go.starlark.net/starlark"
)

var ErrQueueFull = errors.New("callback queue full")

const queueSize = 256

// Invoker runs guest code one call at a time. The main program runs with
// Exclusive; event callbacks are queued with Go and run in order by a worker
// once the guest is free.
type Invoker struct {
	ctx       context.Context
	sem       syncs.Semaphore
	tasks     chan func()
	newThread func(name string) *starlark.Thread
	onError   func(error)
}

// NewInvoker starts the callback worker. It stops when ctx is done, and
// threads it created are cancelled.
func NewInvoker(
	ctx context.Context,
	newThread func(name string) *starlark.Thread,
	onError func(error),
) *Invoker {
	i := &Invoker{
		ctx:       ctx,
		sem:       syncs.NewSemaphore(1),
		tasks:     make(chan func(), queueSize),
		newThread: newThread,
		onError:   onError,
	}
	go i.loop()
	return i
}

func (i *Invoker) loop() {
	for {
		select {
		case <-i.ctx.Done():
			return
		case task := <-i.tasks:
			if err := i.sem.AcquireContext(i.ctx); err != nil {
				return
			}
			task()
			i.sem.Release()
		}
	}
}

func (i *Invoker) report(err error) {
	if err != nil && i.onError != nil && i.ctx.Err() == nil {
		i.onError(err)
	}
}

// Thread returns a new thread that is cancelled with the invoker.
func (i *Invoker) Thread(name string) (*starlark.Thread, func() bool) {
	var thread *starlark.Thread
	if i.newThread != nil {
		thread = i.newThread(name)
	} else {
		thread = &starlark.Thread{
			Name: name,
		}
	}
	stop := context.AfterFunc(i.ctx, func() {
		thread.Cancel("stopped")
	})
	return thread, stop
}

// Exclusive runs fn while no callback runs.
func (i *Invoker) Exclusive(fn func() error) error {
	if err := i.sem.AcquireContext(i.ctx); err != nil {
		return err
	}
	defer i.sem.Release()
	return fn()
}

// Go queues a call of fn. Errors go to the error sink.
func (i *Invoker) Go(name string, fn starlark.Callable, args ...starlark.Value) {
	if fn == nil || i.ctx.Err() != nil {
		return
	}
	select {
	case i.tasks <- func() {
		thread, stop := i.Thread(name)
		defer stop()
		_, err := starlark.Call(thread, fn, args, nil)
		i.report(err)
	}:
	default:
		i.report(ErrQueueFull)
	}
}

// Wait returns when every callback queued before it has run.
func (i *Invoker) Wait(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case i.tasks <- func() {
		close(done)
	}:
	case <-ctx.Done():
		return ctx.Err()
	case <-i.ctx.Done():
		return i.ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-i.ctx.Done():
		return i.ctx.Err()
	}
}
