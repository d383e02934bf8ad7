package future

import (
	"context"
	"fmt"

	"github.com/amlm-go/future/metrics"
)

// Then attaches a then-continuation to upstream (spec §4.E "then"): a
// downstream Future is created immediately in Started state and returned.
// When upstream completes: an exception rethrows into downstream without
// invoking cb; a plain cancel cancels downstream without invoking cb;
// otherwise cb runs once on dispatch, and its return value becomes
// downstream's single result.
func Then[U, R any](
	ctx context.Context,
	up Future[U],
	dispatch DispatchContext,
	mp metrics.Provider,
	name string,
	cb func(context.Context, Future[U]) (R, error),
) Future[R] {
	if dispatch == nil {
		dispatch = Inline
	}
	d := newFuture[R](name, mp)
	d.state.reportStarted()
	Register(d, up)

	w := NewWatcher[U](dispatch)
	w.OnFinished = func() {
		switch {
		case up.HasException():
			d.ReportException(up.Exception())
		case up.IsCanceled():
			d.ReportCanceled()
		default:
			invokeThen(ctx, up, d, cb)
		}
		d.ReportFinished()
	}
	up.Watch(w)
	return d
}

func invokeThen[U, R any](ctx context.Context, up Future[U], d Future[R], cb func(context.Context, Future[U]) (R, error)) {
	defer func() {
		if r := recover(); r != nil {
			d.ReportException(fmt.Errorf("%s: then callback panicked: %v", Namespace, r))
		}
	}()
	res, err := cb(ctx, up)
	if err != nil {
		d.ReportException(err)
		return
	}
	d.ReportResult(res, -1)
}

// ThenFuture is the nested-future form of Then (spec §4.E "D is unwrapped"):
// cb returns a Future[R] instead of R; downstream adopts the inner future's
// eventual result, exception, or cancellation.
func ThenFuture[U, R any](
	ctx context.Context,
	up Future[U],
	dispatch DispatchContext,
	mp metrics.Provider,
	name string,
	cb func(context.Context, Future[U]) (Future[R], error),
) Future[R] {
	if dispatch == nil {
		dispatch = Inline
	}
	d := newFuture[R](name, mp)
	d.state.reportStarted()
	Register(d, up)

	w := NewWatcher[U](dispatch)
	w.OnFinished = func() {
		switch {
		case up.HasException():
			d.ReportException(up.Exception())
			d.ReportFinished()
		case up.IsCanceled():
			d.ReportCanceled()
			d.ReportFinished()
		default:
			inner, err := func() (inner Future[R], err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("%s: then callback panicked: %v", Namespace, r)
					}
				}()
				return cb(ctx, up)
			}()
			if err != nil {
				d.ReportException(err)
				d.ReportFinished()
				return
			}
			adopt(inner, d)
		}
	}
	up.Watch(w)
	return d
}

// adopt wires d to mirror inner's eventual outcome exactly (unwrap).
func adopt[R any](inner, d Future[R]) {
	Register(d, inner)
	iw := NewWatcher[R](Inline)
	iw.OnFinished = func() {
		switch {
		case inner.HasException():
			d.ReportException(inner.Exception())
		case inner.IsCanceled():
			d.ReportCanceled()
		default:
			if vs, err := inner.Results(); err == nil && len(vs) > 0 {
				d.ReportResult(vs[len(vs)-1], -1)
			}
		}
		d.ReportFinished()
	}
	inner.Watch(iw)
}
