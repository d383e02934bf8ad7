package future

import "sync/atomic"

var idCounter atomic.Uint64

// nextID returns a process-wide monotonic identifier for a new shared state,
// used for tracing/logging (spec §3.1 "Identity").
func nextID() uint64 { return idCounter.Add(1) }
