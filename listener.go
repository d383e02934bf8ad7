package future

import "sync/atomic"

// listener is one registered Watcher binding on a sharedState[T]. Callbacks
// are optional (nil fields are skipped); canceled/finished deliver at most
// once per binding (edge delivery, spec §4.C).
type listener[T any] struct {
	ctx DispatchContext

	onResultRange   func(begin, end int)
	onProgressRange func(min, max int)
	onProgressValue func(value int)
	onProgressText  func(text string)
	onProgressInfo  func(key, value string)
	onPaused        func()
	onResumed       func()
	onCanceled      func()
	onFinished      func()

	canceledFired atomic.Bool
	finishedFired atomic.Bool
}

func (l *listener[T]) fireResultRange(begin, end int) {
	if l.onResultRange == nil {
		return
	}
	l.ctx.Post(func() { l.onResultRange(begin, end) })
}

func (l *listener[T]) fireProgressRange(min, max int) {
	if l.onProgressRange == nil {
		return
	}
	l.ctx.Post(func() { l.onProgressRange(min, max) })
}

func (l *listener[T]) fireProgressValue(v int) {
	if l.onProgressValue == nil {
		return
	}
	l.ctx.Post(func() { l.onProgressValue(v) })
}

func (l *listener[T]) fireProgressText(text string) {
	if l.onProgressText == nil {
		return
	}
	l.ctx.Post(func() { l.onProgressText(text) })
}

func (l *listener[T]) fireProgressInfo(key, value string) {
	if l.onProgressInfo == nil {
		return
	}
	l.ctx.Post(func() { l.onProgressInfo(key, value) })
}

func (l *listener[T]) firePaused() {
	if l.onPaused == nil {
		return
	}
	l.ctx.Post(l.onPaused)
}

func (l *listener[T]) fireResumed() {
	if l.onResumed == nil {
		return
	}
	l.ctx.Post(l.onResumed)
}

func (l *listener[T]) fireCanceled() {
	if l.onCanceled == nil || !l.canceledFired.CompareAndSwap(false, true) {
		return
	}
	l.ctx.Post(l.onCanceled)
}

func (l *listener[T]) fireFinished() {
	if l.onFinished == nil || !l.finishedFired.CompareAndSwap(false, true) {
		return
	}
	l.ctx.Post(l.onFinished)
}
