package pool

import "sync"

// NewDynamic returns a Pool with no fixed capacity: it grows on demand and
// lets the garbage collector reclaim idle tokens, via sync.Pool. Use it when
// callables spawned through Run should never block waiting for a token.
func NewDynamic(newFn func() interface{}) Pool {
	return &sync.Pool{New: newFn}
}
