package future

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWatcher_LateAttachStillSeesTerminalEdgeOnce(t *testing.T) {
	f := newFuture[int]("late", nil)
	f.ReportStarted()
	f.ReportResult(7, -1)
	f.ReportFinished()

	var finishedCount int
	w := NewWatcher[int](Inline)
	w.OnFinished = func() { finishedCount++ }
	f.Watch(w)

	require.Equal(t, 1, finishedCount)
}

func TestWatcher_SetFutureDetachesFromPrevious(t *testing.T) {
	a := newFuture[int]("a", nil)
	a.ReportStarted()
	b := newFuture[int]("b", nil)
	b.ReportStarted()

	var fired string
	w := NewWatcher[int](Inline)
	w.OnFinished = func() { fired += "!" }

	a.Watch(w)
	w.SetFuture(b)

	a.ReportFinished() // w should no longer be listening to a
	require.Equal(t, "", fired)

	b.ReportFinished()
	require.Equal(t, "!", fired)
}

func TestWatch_OnZeroValueFutureFiresImmediately(t *testing.T) {
	var f Future[int]
	var canceled, finished bool
	w := NewWatcher[int](Inline)
	w.OnCanceled = func() { canceled = true }
	w.OnFinished = func() { finished = true }

	f.Watch(w)
	require.True(t, canceled)
	require.True(t, finished)
}
