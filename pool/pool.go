// Package pool provides the worker-token abstraction the executor borrows
// from to bound how many callables run concurrently at once.
package pool

// Pool hands out and reclaims worker tokens. The executor calls Get before
// starting a callable and Put once it returns, regardless of outcome.
type Pool interface {
	// Get returns a worker token, blocking if none is immediately available.
	Get() interface{}

	// Put returns a worker token to the pool.
	Put(interface{})
}
