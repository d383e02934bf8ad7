package future

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResultCount_MonotonicUntilFinished(t *testing.T) {
	f := newFuture[int]("mono", nil)
	f.ReportStarted()

	require.Equal(t, 0, f.ResultCount())
	f.ReportResult(1, -1)
	require.Equal(t, 1, f.ResultCount())
	f.ReportResult(2, -1)
	require.Equal(t, 2, f.ResultCount())
	f.ReportFinished()
	require.Equal(t, 2, f.ResultCount())

	// further reports are ignored once terminal.
	f.ReportResult(3, -1)
	require.Equal(t, 2, f.ResultCount())
}

func TestResultAt_SameValueEveryCall(t *testing.T) {
	f := newFuture[string]("repeat", nil)
	f.ReportStarted()
	f.ReportResult("x", -1)
	f.ReportFinished()

	v1, err1 := f.ResultAt(0)
	v2, err2 := f.ResultAt(0)
	require.NoError(t, err1)
	require.NoError(t, err2)
	require.Equal(t, v1, v2)
}

func TestResultAt_OutOfRangeAfterFinishIsBrokenChain(t *testing.T) {
	f := newFuture[int]("short", nil)
	f.ReportStarted()
	f.ReportFinished()

	_, err := f.ResultAt(0)
	require.ErrorIs(t, err, ErrBrokenChain)
}

func TestReportException_SetsCanceledAndFinishesEventually(t *testing.T) {
	f := newFuture[int]("fails", nil)
	f.ReportStarted()
	f.ReportException(errInjected)
	require.True(t, f.IsCanceled())
	require.True(t, f.HasException())
	f.ReportFinished()
	require.True(t, f.IsFinished())
}

func TestReportException_AtMostOneStored(t *testing.T) {
	f := newFuture[int]("one-err", nil)
	f.ReportStarted()
	f.ReportException(errInjected)
	f.ReportException(errOther)

	require.ErrorIs(t, f.Exception(), errInjected)
	require.NotErrorIs(t, f.Exception(), errOther)
}

func TestCancel_Idempotent(t *testing.T) {
	f := newFuture[int]("cancel-idem", nil)
	f.ReportStarted()
	f.Cancel()
	f.Cancel()
	require.True(t, f.IsCanceled())
}

func TestReportFinished_IdempotentAfterTerminal(t *testing.T) {
	f := newFuture[int]("finish-idem", nil)
	f.ReportStarted()
	f.ReportFinished()
	require.NotPanics(t, func() { f.ReportFinished() })
	require.True(t, f.IsFinished())
}

func TestReportResult_RejectsNonAppendIndex(t *testing.T) {
	f := newFuture[int]("hole", nil)
	f.ReportStarted()
	f.ReportResult(1, -1)
	f.ReportResult(9, 5) // not an append position: ignored
	require.Equal(t, 1, f.ResultCount())
}

func TestProgress_SuppressesUnchangedValue(t *testing.T) {
	f := newFuture[int]("progress", nil)
	f.ReportStarted()

	var values []int
	w := NewWatcher[int](Inline)
	w.OnProgressValue = func(v int) { values = append(values, v) }
	f.Watch(w)

	f.ReportProgressValue(1)
	f.ReportProgressValue(1) // unchanged: suppressed
	f.ReportProgressValue(2)

	require.Equal(t, []int{1, 2}, values)
}

var (
	errInjected = errTest("injected")
	errOther    = errTest("other")
)

type errTest string

func (e errTest) Error() string { return string(e) }
