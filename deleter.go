package future

import (
	"context"
	"sync"
)

// canceler is the minimal surface a Deleter needs from a spawned Future,
// independent of its result type T (spec §6 "process-wide lifecycle").
type canceler interface {
	Cancel()
	WaitForFinished() error
}

// funcCanceler adapts a Future[T] to canceler without the Deleter needing
// to know T.
type funcCanceler struct {
	cancel func()
	wait   func() error
}

func (f funcCanceler) Cancel()                { f.cancel() }
func (f funcCanceler) WaitForFinished() error { return f.wait() }

// Deleter tracks every Future spawned through it so a host application can
// cancel-and-join all outstanding work on shutdown (spec §6).
type Deleter struct {
	mu      sync.Mutex
	tracked []canceler
}

// NewDeleter constructs an empty Deleter.
func NewDeleter() *Deleter { return &Deleter{} }

// Track registers f with the Deleter. Call it right after spawning a
// top-level Future (e.g. the result of Run or a pipeline's outermost
// continuation).
func Track[T any](del *Deleter, f Future[T]) {
	del.mu.Lock()
	defer del.mu.Unlock()
	del.tracked = append(del.tracked, funcCanceler{
		cancel: f.Cancel,
		wait:   f.WaitForFinished,
	})
}

// CancelAndJoin cancels every tracked Future and waits for each to finish,
// bounded by ctx. It is safe to call more than once; already-finished
// futures return immediately.
func (d *Deleter) CancelAndJoin(ctx context.Context) {
	d.mu.Lock()
	tracked := append([]canceler(nil), d.tracked...)
	d.tracked = nil
	d.mu.Unlock()

	for _, c := range tracked {
		c.Cancel()
	}
	done := make(chan struct{})
	go func() {
		for _, c := range tracked {
			_ = c.WaitForFinished()
		}
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
