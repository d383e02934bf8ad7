package future

import (
	"context"
	"sync"
)

// PropagationHandler is the single process-wide service that relays a
// downstream future's cancellation (and, if present, its exception) into
// the upstream future it was continued from, so producer threads can
// cooperatively stop (spec §4.F). It is backed by one
// github.com/joeycumines/go-eventloop Loop running on a single long-lived
// goroutine, rather than a per-chain thread.
type PropagationHandler struct {
	mu  sync.Mutex
	ctx *EventLoopContext
}

var (
	defaultHandlerOnce sync.Once
	defaultHandler     *PropagationHandler
)

// DefaultPropagationHandler returns the process-wide handler, starting its
// event loop on first use.
func DefaultPropagationHandler() *PropagationHandler {
	defaultHandlerOnce.Do(func() {
		defaultHandler = NewPropagationHandler()
	})
	return defaultHandler
}

// NewPropagationHandler constructs a handler with its own event loop. Most
// callers should use DefaultPropagationHandler; constructing a private one
// is useful for tests that need isolated shutdown.
func NewPropagationHandler() *PropagationHandler {
	return &PropagationHandler{}
}

func (h *PropagationHandler) ensureStarted() *EventLoopContext {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ctx == nil {
		// The handler's loop outlives any single registration; it is closed
		// explicitly via Shutdown, not tied to a caller's context.
		c, err := NewEventLoopContext(context.Background())
		if err != nil {
			// Fall back to inline dispatch rather than losing propagation
			// entirely; this only changes which goroutine runs the relay,
			// never the semantics.
			h.ctx = nil
			return nil
		}
		h.ctx = c
	}
	return h.ctx
}

// Register records the (downstream, upstream) pair described in spec §4.F:
// when down is later transitioned to Canceled, the handler propagates that
// to up — rethrowing down's stored exception into up first, if present —
// on its own goroutine. Finished-without-cancel is never propagated.
//
// The registration is edge-triggered (down's Canceled fires at most once)
// so entries need no explicit bookkeeping or removal: once relayed, the
// Watcher backing this registration never fires again.
func Register[D, U any](down Future[D], up Future[U]) {
	h := DefaultPropagationHandler()
	ctx := h.ensureStarted()
	var dispatch DispatchContext = Inline
	if ctx != nil {
		dispatch = ctx
	}

	w := NewWatcher[D](dispatch)
	w.OnCanceled = func() {
		if err := down.Exception(); err != nil {
			up.ReportException(err)
		}
		up.Cancel()
	}
	down.Watch(w)
}

// Shutdown stops the handler's event loop, cancelling nothing itself — that
// is the caller's responsibility via a Deleter (see deleter.go).
func (h *PropagationHandler) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	c := h.ctx
	h.ctx = nil
	h.mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Shutdown(ctx)
}
