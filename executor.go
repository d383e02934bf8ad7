package future

import (
	"context"
	"errors"
	"fmt"

	"github.com/amlm-go/future/metrics"
	"github.com/amlm-go/future/pool"
)

// Executor schedules callables onto a worker pool or dedicated goroutines,
// wiring their lifecycle to a Future (spec §4.D). The zero value is not
// usable; construct with NewExecutor.
type Executor struct {
	pool    pool.Pool
	metrics metrics.Provider
}

// NewExecutor constructs an Executor backed by p. A nil p creates a dynamic
// (sync.Pool-backed) pool, matching the teacher's default.
func NewExecutor(p pool.Pool, mp metrics.Provider) *Executor {
	if p == nil {
		p = pool.NewDynamic(func() interface{} { return struct{}{} })
	}
	if mp == nil {
		mp = metrics.NewNoopProvider()
	}
	return &Executor{pool: p, metrics: mp}
}

// Run schedules fn on the Executor's worker pool (spec §4.D.1 "Pool run").
// A new Future is created in (Started|Running) and handed to fn; if fn
// reported no results of its own, its return value becomes the Future's
// single result (a callable that streams results via ReportResult has its
// return value discarded). Its error becomes the Future's stored exception
// (unless it is a CancelError, in which case the Future is merely canceled,
// not exceptional — the cooperative-cancel contract of §4.D).
func Run[T any](ctx context.Context, e *Executor, name string, fn func(context.Context, Future[T]) (T, error)) Future[T] {
	f := newFuture[T](name, e.metrics)
	f.state.reportStarted()

	tok := e.pool.Get()
	go func() {
		defer e.pool.Put(tok)
		runCallable(ctx, f, fn)
	}()
	return f
}

// RunDedicated spawns a goroutine whose sole duty is running fn, for
// callables that must block on watchers or host an event loop rather than
// occupy a pool worker (spec §4.D.2 "Dedicated-thread run").
func RunDedicated[T any](ctx context.Context, name string, mp metrics.Provider, fn func(context.Context, Future[T]) (T, error)) Future[T] {
	f := newFuture[T](name, mp)
	f.state.reportStarted()
	go runCallable(ctx, f, fn)
	return f
}

func runCallable[T any](ctx context.Context, f Future[T], fn func(context.Context, Future[T]) (T, error)) {
	defer func() {
		if r := recover(); r != nil {
			f.ReportException(fmt.Errorf("%s: task panicked: %v", Namespace, r))
			f.ReportFinished()
		}
	}()

	result, err := fn(ctx, f)

	switch {
	case errors.Is(err, ErrCancelRequested) || isCancelError(err):
		// Cooperative cancel: not an exception to propagate (spec §4.D).
		f.ReportCanceled()
	case err != nil:
		f.ReportException(err)
	default:
		if !f.IsCanceled() && f.ResultCount() == 0 {
			f.ReportResult(result, -1)
		}
	}
	f.ReportFinished()
}

func isCancelError(err error) bool {
	var ce *CancelError
	return errors.As(err, &ce)
}
