package future

import (
	"context"
	"fmt"

	"github.com/amlm-go/future/metrics"
)

// Tap attaches a per-result continuation to upstream (spec §4.E "tap"): for
// each new result in [begin, end) it invokes cb on dispatch, then forwards
// the value to the returned downstream Future once cb returns. Downstream
// mirrors upstream's finish/cancel/exception unchanged; a callback panic
// cancels downstream (with the recovered panic stored as its exception)
// without affecting upstream.
func Tap[T any](
	ctx context.Context,
	up Future[T],
	dispatch DispatchContext,
	mp metrics.Provider,
	name string,
	cb func(context.Context, T),
) Future[T] {
	if dispatch == nil {
		dispatch = Inline
	}
	d := newFuture[T](name, mp)
	d.state.reportStarted()
	Register(d, up)

	w := NewWatcher[T](dispatch)
	w.OnResultRange = func(begin, end int) {
		for i := begin; i < end; i++ {
			v, err := up.ResultAt(i)
			if err != nil {
				return
			}
			if !runTap(ctx, d, cb, v) {
				return
			}
			d.ReportResult(v, -1)
		}
	}
	w.OnFinished = func() {
		switch {
		case up.HasException():
			d.ReportException(up.Exception())
		case up.IsCanceled():
			d.ReportCanceled()
		}
		d.ReportFinished()
	}
	up.Watch(w)
	return d
}

func runTap[T any](ctx context.Context, d Future[T], cb func(context.Context, T), v T) (ok bool) {
	ok = true
	defer func() {
		if r := recover(); r != nil {
			d.ReportException(fmt.Errorf("%s: tap callback panicked: %v", Namespace, r))
			ok = false
		}
	}()
	cb(ctx, v)
	return
}
