package future

import (
	"context"
	"fmt"

	"github.com/amlm-go/future/metrics"
)

// Finally attaches a continuation that fires on any terminal state of
// upstream — finished, canceled, or exceptional — without being told
// which (spec §4.E "finally"). The returned Future completes when cb
// returns; a panic or error from cb propagates to it as a stored
// exception.
func Finally[T any](
	ctx context.Context,
	up Future[T],
	dispatch DispatchContext,
	mp metrics.Provider,
	name string,
	cb func(context.Context) error,
) Future[Unit] {
	if dispatch == nil {
		dispatch = Inline
	}
	d := newFuture[Unit](name, mp)
	d.state.reportStarted()
	Register(d, up)

	w := NewWatcher[T](dispatch)
	w.OnFinished = func() {
		err := runFinally(ctx, cb)
		if err != nil {
			d.ReportException(err)
		} else {
			d.ReportResult(Unit{}, -1)
		}
		d.ReportFinished()
	}
	up.Watch(w)
	return d
}

func runFinally(ctx context.Context, cb func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: finally callback panicked: %v", Namespace, r)
		}
	}()
	return cb(ctx)
}
