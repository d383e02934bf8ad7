package future

import (
	"context"

	"github.com/joeycumines/go-eventloop"
)

// EventLoopContext dispatches Watcher callbacks onto a
// github.com/joeycumines/go-eventloop Loop, so a chain of continuations can
// share a single hosting goroutine instead of one dedicated thread per
// chain (spec §4.F rationale; also used directly by the Propagation
// Handler).
type EventLoopContext struct {
	loop *eventloop.Loop
}

// NewEventLoopContext starts a fresh Loop in its own goroutine and returns a
// context backed by it. Callers should arrange for ctx cancellation to stop
// the loop (via Shutdown) when the context is no longer needed.
func NewEventLoopContext(ctx context.Context) (*EventLoopContext, error) {
	loop, err := eventloop.New()
	if err != nil {
		return nil, err
	}
	go func() { _ = loop.Run(ctx) }()
	return &EventLoopContext{loop: loop}, nil
}

func (c *EventLoopContext) Post(fn func()) {
	_ = c.loop.Submit(eventloop.Task{Runnable: fn})
}

// Shutdown stops the underlying loop, waiting up to ctx's deadline.
func (c *EventLoopContext) Shutdown(ctx context.Context) error {
	return c.loop.Shutdown(ctx)
}
