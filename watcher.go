package future

// Watcher observes a Future and fires callbacks on state transitions,
// delivered on a chosen DispatchContext (spec §3.3/§4.C). A Watcher is
// reusable: calling SetFuture again detaches it from whatever it was
// previously watching before attaching to the new one.
type Watcher[T any] struct {
	ctx DispatchContext

	OnResultRange   func(begin, end int)
	OnProgressRange func(min, max int)
	OnProgressValue func(value int)
	OnProgressText  func(text string)
	OnProgressInfo  func(key, value string)
	OnPaused        func()
	OnResumed       func()
	OnCanceled      func()
	OnFinished      func()

	detach func()
}

// NewWatcher constructs a Watcher that dispatches on ctx. A nil ctx dispatches
// inline on the notifying goroutine.
func NewWatcher[T any](ctx DispatchContext) *Watcher[T] {
	if ctx == nil {
		ctx = Inline
	}
	return &Watcher[T]{ctx: ctx}
}

func (w *Watcher[T]) bind() *listener[T] {
	return &listener[T]{
		ctx:             w.ctx,
		onResultRange:   w.OnResultRange,
		onProgressRange: w.OnProgressRange,
		onProgressValue: w.OnProgressValue,
		onProgressText:  w.OnProgressText,
		onProgressInfo:  w.OnProgressInfo,
		onPaused:        w.OnPaused,
		onResumed:       w.OnResumed,
		onCanceled:      w.OnCanceled,
		onFinished:      w.OnFinished,
	}
}

// attachTo installs w as a listener on s, first detaching from any future it
// was previously bound to (spec §4.C set_future semantics). Returns a
// function that detaches it.
func (w *Watcher[T]) attachTo(s *sharedState[T]) func() {
	if w.detach != nil {
		w.detach()
	}
	l := w.bind()
	s.attach(l)
	detach := func() { s.detach(l) }
	w.detach = detach
	return detach
}

// SetFuture binds w to f, detaching from any previously-watched future.
func (w *Watcher[T]) SetFuture(f Future[T]) (detach func()) {
	return f.Watch(w)
}
