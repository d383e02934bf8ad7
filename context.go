package future

import (
	"sync"

	"github.com/amlm-go/future/pool"
)

// DispatchContext is the execution context a Watcher delivers its callbacks
// on: the caller's own goroutine (inline), a shared worker pool, a dedicated
// goroutine hosting a private queue, or an event loop (spec §3.3/§4.C).
type DispatchContext interface {
	// Post schedules fn for execution on this context. Inline runs fn before
	// Post returns; the other contexts return without waiting for fn.
	Post(fn func())
}

// Inline invokes callbacks synchronously on the notifying thread.
var Inline DispatchContext = inlineContext{}

type inlineContext struct{}

func (inlineContext) Post(fn func()) { fn() }

// PoolContext dispatches callbacks onto a shared worker pool, one goroutine
// per posted callback, backed by a future/pool.Pool of reusable worker
// tokens (the same pool abstraction the Executor uses).
type PoolContext struct {
	p pool.Pool
}

// NewPoolContext constructs a PoolContext. A nil pool argument creates a
// dynamic (sync.Pool-backed) pool of dispatch slots.
func NewPoolContext(p pool.Pool) *PoolContext {
	if p == nil {
		p = pool.NewDynamic(func() interface{} { return struct{}{} })
	}
	return &PoolContext{p: p}
}

func (c *PoolContext) Post(fn func()) {
	tok := c.p.Get()
	go func() {
		defer c.p.Put(tok)
		fn()
	}()
}

// ThreadContext is a dedicated goroutine with its own FIFO queue of posted
// callbacks: callbacks on one ThreadContext are delivered strictly in the
// order they were posted, from a single goroutine that can host blocking
// work (e.g. an event loop) without borrowing a pool worker.
type ThreadContext struct {
	tasks  chan func()
	once   sync.Once
	closed chan struct{}
}

// NewThreadContext starts the dedicated goroutine and returns the context.
func NewThreadContext() *ThreadContext {
	c := &ThreadContext{tasks: make(chan func(), 256), closed: make(chan struct{})}
	go c.run()
	return c
}

func (c *ThreadContext) run() {
	for {
		select {
		case fn := <-c.tasks:
			fn()
		case <-c.closed:
			return
		}
	}
}

func (c *ThreadContext) Post(fn func()) {
	select {
	case c.tasks <- fn:
	case <-c.closed:
	}
}

// Close stops the dedicated goroutine. Pending callbacks are dropped.
func (c *ThreadContext) Close() {
	c.once.Do(func() { close(c.closed) })
}
