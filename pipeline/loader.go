package pipeline

import (
	"context"
	"sync/atomic"

	stdfuture "github.com/amlm-go/future"
	"github.com/amlm-go/future/metrics"
)

// TagReader extracts tag metadata from a file at url. Most files hold a
// single logical track and yield a one-element slice; a container file that
// bundles several subtracks (spec §4.G) yields one map per subtrack, in
// order. It is the external tagging collaborator referenced by spec §6;
// Load never interprets file contents itself.
type TagReader func(url string) ([]map[string]string, error)

// Load attaches a streaming-tap load stage to scan, assigning each scanned
// file a persistent row id and invoking read against it, and reporting one
// LoaderResult per input. A failing read produces a LoaderResult with Err
// set rather than a future exception, so one unreadable file never aborts
// the rest of the scan (spec §4.G).
func Load(ctx context.Context, scan stdfuture.Future[ScanResult], dispatch stdfuture.DispatchContext, mp metrics.Provider, read TagReader) stdfuture.Future[LoaderResult] {
	var nextRowID atomic.Int64
	return stdfuture.Stap(ctx, scan, dispatch, mp, "pipeline.Load",
		func(ctx context.Context, up stdfuture.Future[ScanResult], down stdfuture.Future[LoaderResult], begin, end int) {
			for i := begin; i < end; i++ {
				sr, err := up.ResultAt(i)
				if err != nil {
					return
				}
				down.SuspendIfRequested(ctx)
				if down.IsCanceled() {
					return
				}
				task := LoaderTask{
					ScanResult: sr,
					RowID:      nextRowID.Add(1),
					Entry:      LibraryEntry{URL: sr.URL},
				}
				down.ReportResult(loadOne(task, read), -1)
			}
		})
}

// loadOne runs read against task's partially-populated entry, producing the
// 1..N fully-populated entries the scanned file contains.
func loadOne(task LoaderTask, read TagReader) LoaderResult {
	tagSets, err := read(task.Entry.URL)
	if err != nil {
		return LoaderResult{LoaderTask: task, Err: err}
	}
	entries := make([]LibraryEntry, 0, len(tagSets))
	for _, tags := range tagSets {
		entries = append(entries, LibraryEntry{URL: task.Entry.URL, Tags: tags})
	}
	return LoaderResult{LoaderTask: task, Entries: entries, Count: len(entries)}
}
