// Package dispatch runs session work on a single goroutine. Every mutation
// of the session manager goes through Loop.Do, so the manager itself needs
// no locks.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"
)

var (
	// ErrStopped is returned when the loop is not running
	ErrStopped = errors.New("dispatch loop stopped")
	// ErrPanic wraps a recovered handler panic
	ErrPanic = errors.New("handler panicked")
)

// Handler is one unit of work. The context carries the handler timeout.
type Handler func(ctx context.Context) error

type task struct {
	name   string
	fn     Handler
	result chan error
}

// Loop serializes handlers onto one goroutine
type Loop struct {
	tasks   chan task
	done    chan struct{}
	stopped chan struct{}
	running atomic.Bool
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a loop. timeout bounds each handler's context; zero disables it.
func New(timeout time.Duration, logger *slog.Logger) *Loop {
	return &Loop{
		tasks:   make(chan task, 64),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		timeout: timeout,
		logger:  logger.With(slog.String("component", "dispatch")),
	}
}

// Run processes handlers until ctx is cancelled or Close is called
func (l *Loop) Run(ctx context.Context) {
	l.running.Store(true)
	defer close(l.stopped)
	l.logger.Info("dispatch loop started")
	for {
		select {
		case t := <-l.tasks:
			t.result <- l.execute(ctx, t)

		case <-ctx.Done():
			l.drain()
			l.logger.Info("dispatch loop stopped", slog.String("reason", ctx.Err().Error()))
			return

		case <-l.done:
			l.drain()
			l.logger.Info("dispatch loop stopped", slog.String("reason", "closed"))
			return
		}
	}
}

// drain fails anything still queued
func (l *Loop) drain() {
	for {
		select {
		case t := <-l.tasks:
			t.result <- ErrStopped
		default:
			return
		}
	}
}

func (l *Loop) execute(ctx context.Context, t task) (err error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			l.logger.Error("handler panic",
				slog.String("handler", t.name),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())))
			err = fmt.Errorf("%w: %s: %v", ErrPanic, t.name, rec)
		}
		elapsed := time.Since(start)
		if l.timeout > 0 && elapsed > l.timeout {
			l.logger.Warn("handler exceeded timeout",
				slog.String("handler", t.name),
				slog.Duration("duration", elapsed))
		}
	}()

	return t.fn(ctx)
}

// Do runs fn on the loop and waits for its result. It must not be called
// from inside a handler.
func (l *Loop) Do(ctx context.Context, name string, fn Handler) error {
	select {
	case <-l.done:
		return ErrStopped
	default:
	}

	t := task{name: name, fn: fn, result: make(chan error, 1)}
	select {
	case l.tasks <- t:
	case <-l.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-t.result:
		return err
	case <-l.stopped:
		// Run may have finished t before closing
		select {
		case err := <-t.result:
			return err
		default:
			return ErrStopped
		}
	}
}

// Close stops the loop and waits for Run to return if it was started
func (l *Loop) Close() {
	select {
	case <-l.done:
	default:
		close(l.done)
	}
	if l.running.Load() {
		<-l.stopped
	}
}
