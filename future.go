package future

import (
	"context"

	"github.com/amlm-go/future/metrics"
)

// Future is a value-semantic handle to a shared state (spec §3.2). Copies
// share the same underlying state; two handles compare equal iff they
// reference the same shared state. The zero value refers to a terminal
// state (Started|Canceled|Finished) so it is always safe to read from
// without allocating or blocking.
type Future[T any] struct {
	state *sharedState[T]
}

// newFuture wraps a fresh sharedState in a Future handle.
func newFuture[T any](name string, mp metrics.Provider) Future[T] {
	return Future[T]{state: newSharedState[T](name, mp)}
}

// Ready constructs an already-finished Future carrying a single result v
// (spec §8 boundary scenario 2).
func Ready[T any](v T) Future[T] {
	f := newFuture[T]("", nil)
	f.state.reportStarted()
	f.state.reportResult(v, -1)
	f.state.reportFinished()
	return f
}

// Equal reports whether f and g reference the same shared state.
func (f Future[T]) Equal(g Future[T]) bool {
	return f.state == g.state
}

// ID returns the shared state's tracing id, or 0 for a zero-value Future.
func (f Future[T]) ID() uint64 {
	if f.state == nil {
		return 0
	}
	return f.state.id
}

// Name returns the shared state's optional display name.
func (f Future[T]) Name() string {
	if f.state == nil {
		return ""
	}
	return f.state.name
}

// --- producer facet ---------------------------------------------------------

func (f Future[T]) ReportStarted() {
	if f.state == nil {
		return
	}
	f.state.reportStarted()
}

// ReportResult appends v at index i, or at the end when i < 0.
func (f Future[T]) ReportResult(v T, i int) {
	if f.state == nil {
		return
	}
	f.state.reportResult(v, i)
}

func (f Future[T]) ReportResults(vs []T) {
	if f.state == nil {
		return
	}
	f.state.reportResults(vs)
}

func (f Future[T]) ReportProgressRange(min, max int) {
	if f.state == nil {
		return
	}
	p, _ := f.state.progressSnapshot()
	f.state.reportProgress(min, max, p.Value, "", false)
}

func (f Future[T]) ReportProgressValue(value int) {
	if f.state == nil {
		return
	}
	p, _ := f.state.progressSnapshot()
	f.state.reportProgress(p.Min, p.Max, value, "", false)
}

func (f Future[T]) ReportProgressText(text string) {
	if f.state == nil {
		return
	}
	p, _ := f.state.progressSnapshot()
	f.state.reportProgress(p.Min, p.Max, p.Value, text, true)
}

func (f Future[T]) ReportProgressInfo(key, value string) {
	if f.state == nil {
		return
	}
	f.state.reportProgressInfo(key, value)
}

func (f Future[T]) ReportException(err error) {
	if f.state == nil || err == nil {
		return
	}
	f.state.reportException(err)
}

func (f Future[T]) ReportCanceled() {
	if f.state == nil {
		return
	}
	f.state.reportCanceled()
}

func (f Future[T]) ReportFinished() {
	if f.state == nil {
		return
	}
	f.state.reportFinished()
}

func (f Future[T]) ReportPaused()  { f.pauseImpl(true) }
func (f Future[T]) ReportResumed() { f.pauseImpl(false) }

func (f Future[T]) pauseImpl(pause bool) {
	if f.state == nil {
		return
	}
	if pause {
		f.state.reportPaused()
	} else {
		f.state.reportResumed()
	}
}

// SuspendIfRequested blocks while the future is Paused and returns promptly
// once resumed or canceled. It never returns an error; callers check Cancel
// status themselves (spec §4.D/§5).
func (f Future[T]) SuspendIfRequested(ctx context.Context) {
	if f.state == nil {
		return
	}
	if ctx != nil {
		select {
		case <-ctx.Done():
			f.state.reportCanceled()
			return
		default:
		}
	}
	f.state.suspendIfRequested()
}

// --- consumer facet ---------------------------------------------------------

func (f Future[T]) IsReady() bool {
	if f.state == nil {
		return terminalStatus.Has(StatusFinished)
	}
	return f.state.isReady()
}

func (f Future[T]) IsCanceled() bool {
	if f.state == nil {
		return terminalStatus.Has(StatusCanceled)
	}
	return f.state.isCanceled()
}

func (f Future[T]) IsFinished() bool {
	if f.state == nil {
		return terminalStatus.Has(StatusFinished)
	}
	return f.state.isFinished()
}

func (f Future[T]) IsPaused() bool {
	if f.state == nil {
		return terminalStatus.Has(StatusPaused)
	}
	return f.state.isPaused()
}

// Exception returns the stored exception, if any, without blocking or
// consuming it (shared semantics: repeated calls see the same value).
func (f Future[T]) Exception() error {
	if f.state == nil {
		return nil
	}
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	return f.state.err
}

func (f Future[T]) HasException() bool {
	if f.state == nil {
		return false
	}
	return f.state.hasException()
}

func (f Future[T]) ResultCount() int {
	if f.state == nil {
		return 0
	}
	return f.state.resultCount()
}

func (f Future[T]) Progress() (Progress, map[string]string) {
	if f.state == nil {
		return Progress{}, nil
	}
	return f.state.progressSnapshot()
}

// ResultAt blocks until index i is ready, the future finishes, or an
// exception is stored, returning that exception if so (spec §4.B).
func (f Future[T]) ResultAt(i int) (T, error) {
	if f.state == nil {
		var zero T
		return zero, ErrBrokenChain
	}
	return f.state.resultAt(i)
}

// Results blocks until the future finishes, returning all results, or the
// stored exception.
func (f Future[T]) Results() ([]T, error) {
	if f.state == nil {
		return nil, nil
	}
	return f.state.resultsSnapshot()
}

// Wait blocks until result count exceeds i, the future finishes, or an
// exception is stored (which is returned).
func (f Future[T]) Wait(i int) error {
	if f.state == nil {
		return nil
	}
	return f.state.wait(i)
}

// WaitForFinished blocks until the future is Finished, returning the stored
// exception if any.
func (f Future[T]) WaitForFinished() error {
	if f.state == nil {
		return nil
	}
	return f.state.waitForFinished()
}

// Cancel requests cooperative cancellation. Idempotent; a no-op on an
// already-terminal future.
func (f Future[T]) Cancel() {
	if f.state == nil {
		return
	}
	f.state.reportCanceled()
}

// Watch attaches w to f, returning a detach function. Installing a Watcher
// on an already-terminal future still delivers canceled/finished exactly
// once (spec §4.C edge delivery).
func (f Future[T]) Watch(w *Watcher[T]) (detach func()) {
	if f.state == nil {
		l := w.bind()
		l.fireCanceled()
		l.fireFinished()
		return func() {}
	}
	return w.attachTo(f.state)
}
