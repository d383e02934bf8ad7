// Package future implements a shared, value-semantic future type with
// producer and consumer facets, continuation composition (then/tap/stap/
// finally), a watcher-based notification system, and a propagation handler
// that relays cancellation and exceptions between chained futures across
// thread boundaries.
//
// Construction
//   - Run / RunDedicated (executor.go): schedule a callable on a worker
//     pool or a dedicated goroutine, wiring its lifecycle to a Future.
//   - Ready (future.go): construct an already-finished future from a value.
//
// Composition
//   - Then, Tap, Stap, Finally (then.go, tap.go, stap.go, finally.go): attach a
//     continuation to an upstream Future and obtain a downstream one.
//
// Cancellation
// Cancellation is cooperative: cancelling a future sets a flag; producers
// must poll SuspendIfRequested at a safe point. Cancelling a downstream
// future propagates to its upstream via the package-level propagation
// handler (propagation.go); cancelling an upstream propagates downstream
// through the normal continuation path.
package future
