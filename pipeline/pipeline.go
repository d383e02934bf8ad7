package pipeline

import (
	"context"

	stdfuture "github.com/amlm-go/future"
	"github.com/amlm-go/future/metrics"
)

// RowSink receives one LibraryEntry per entry a readable LoaderResult
// produced, invoked through dispatch and keyed by the row id the task was
// assigned at scan time (spec §6 "View-model output"). A container file
// that splits into N subtracks invokes Sink N times, all with that file's
// RowID.
type RowSink func(rowID int64, entry *LibraryEntry)

// RunOptions configures Run.
type RunOptions struct {
	Scan     ScanOptions
	Read     TagReader
	Dispatch stdfuture.DispatchContext
	Metrics  metrics.Provider
	// Sink receives each readable row as it completes. Unreadable rows
	// (LoaderResult.Err != nil) are not sent to Sink.
	Sink RowSink
	// Deleter, when non-nil, tracks both stages so a host application can
	// cancel-and-join the whole pipeline on shutdown.
	Deleter *stdfuture.Deleter
}

// Run wires the scan and load stages together. Load's Stap continuation
// registers itself against scan with the propagation handler, so canceling
// the returned Future also cancels the in-flight scan.
func Run(ctx context.Context, exec *stdfuture.Executor, opts RunOptions) stdfuture.Future[LoaderResult] {
	scan := Scan(ctx, exec, opts.Metrics, opts.Scan)
	load := Load(ctx, scan, opts.Dispatch, opts.Metrics, opts.Read)

	if opts.Sink != nil {
		attachSink(load, opts.Dispatch, opts.Sink)
	}
	if opts.Deleter != nil {
		stdfuture.Track(opts.Deleter, scan)
		stdfuture.Track(opts.Deleter, load)
	}
	return load
}

func attachSink(load stdfuture.Future[LoaderResult], dispatch stdfuture.DispatchContext, sink RowSink) {
	w := stdfuture.NewWatcher[LoaderResult](dispatch)
	w.OnResultRange = func(begin, end int) {
		for i := begin; i < end; i++ {
			res, err := load.ResultAt(i)
			if err != nil || !res.Readable() {
				continue
			}
			for j := range res.Entries {
				sink(res.RowID, &res.Entries[j])
			}
		}
	}
	load.Watch(w)
}
