// worker/pool.go
package worker

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned for jobs submitted after Close.
var ErrClosed = errors.New("worker: loop closed")

// Job is a unit of work run on the loop goroutine.
type Job[T any] func() (T, error)

// Loop runs submitted jobs one at a time on a single goroutine, so state
// touched only from jobs never needs its own locking. A job must not submit
// to the loop it runs on.
type Loop struct {
	jobs chan func()
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

// NewLoop starts the loop goroutine. bufferSize bounds how many jobs may
// queue before Do blocks.
func NewLoop(bufferSize int) *Loop {
	l := &Loop{
		jobs: make(chan func(), bufferSize),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case <-l.quit:
			return
		case job := <-l.jobs:
			job()
		}
	}
}

// Do runs fn on the loop and waits for it. If ctx ends first Do returns
// ctx.Err(); fn may still run later.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	job := func() {
		defer close(finished)
		fn()
	}

	select {
	case <-l.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case l.jobs <- job:
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrClosed
		}
	}
}

// Close stops the loop after the job in progress. Queued jobs are dropped.
// Close is idempotent and waits for the loop goroutine to exit.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.quit) })
	<-l.done
}

// Call runs job on the loop and returns its result.
func Call[T any](ctx context.Context, l *Loop, job Job[T]) (T, error) {
	var (
		out    T
		jobErr error
	)
	if err := l.Do(ctx, func() { out, jobErr = job() }); err != nil {
		var zero T
		return zero, err
	}
	return out, jobErr
}
