package future

import (
	"context"
	"fmt"

	"github.com/amlm-go/future/metrics"
)

// Stap attaches a streaming-tap continuation to upstream (spec §4.E
// "stap"): unlike Tap, cb is given the upstream future plus the newly
// available half-open range [begin, end) directly and is responsible for
// how values are consumed and whether/how they are forwarded to the
// returned downstream Future.
func Stap[U, D any](
	ctx context.Context,
	up Future[U],
	dispatch DispatchContext,
	mp metrics.Provider,
	name string,
	cb func(ctx context.Context, up Future[U], down Future[D], begin, end int),
) Future[D] {
	if dispatch == nil {
		dispatch = Inline
	}
	d := newFuture[D](name, mp)
	d.state.reportStarted()
	Register(d, up)

	w := NewWatcher[U](dispatch)
	w.OnResultRange = func(begin, end int) {
		defer func() {
			if r := recover(); r != nil {
				d.ReportException(fmt.Errorf("%s: stap callback panicked: %v", Namespace, r))
			}
		}()
		cb(ctx, up, d, begin, end)
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
