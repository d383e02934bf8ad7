package future

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Scenario 1: single pool task, value result.
func TestScenario_SinglePoolTask(t *testing.T) {
	exec := NewExecutor(nil, nil)
	f := Run(context.Background(), exec, "answer", func(ctx context.Context, self Future[int]) (int, error) {
		return 42, nil
	})

	require.NoError(t, f.WaitForFinished())
	require.True(t, f.IsFinished())
	require.False(t, f.HasException())
	results, err := f.Results()
	require.NoError(t, err)
	require.Equal(t, []int{42}, results)
}

// Scenario 2: a Ready future.
func TestScenario_ReadyFuture(t *testing.T) {
	f := Ready(45)
	require.True(t, f.IsReady())
	require.True(t, f.IsFinished())

	v, err := f.ResultAt(0)
	require.NoError(t, err)
	require.Equal(t, 45, v)

	require.NoError(t, f.Wait(0))
}

func TestBoundary_ZeroValueFutureIsImmediatelyReady(t *testing.T) {
	var f Future[int]
	require.True(t, f.IsReady())
	require.True(t, f.IsFinished())
	results, err := f.Results()
	require.NoError(t, err)
	require.Empty(t, results)
}

// Scenario 3: linear chain of three thens.
func TestScenario_LinearChainOfThreeThens(t *testing.T) {
	var order []string

	f0 := Ready("A")
	then1 := Then(context.Background(), f0, Inline, nil, "then1", func(ctx context.Context, up Future[string]) (string, error) {
		v, _ := up.ResultAt(0)
		require.Equal(t, "A", v)
		order = append(order, "then1")
		return "B", nil
	})
	then2 := Then(context.Background(), then1, Inline, nil, "then2", func(ctx context.Context, up Future[string]) (string, error) {
		v, _ := up.ResultAt(0)
		require.Equal(t, "B", v)
		order = append(order, "then2")
		return "C", nil
	})
	then3 := Then(context.Background(), then2, Inline, nil, "then3", func(ctx context.Context, up Future[string]) (string, error) {
		v, _ := up.ResultAt(0)
		require.Equal(t, "C", v)
		order = append(order, "then3")
		return "D", nil
	})

	require.NoError(t, then3.WaitForFinished())
	v, err := then3.ResultAt(0)
	require.NoError(t, err)
	require.Equal(t, "D", v)
	require.Equal(t, []string{"then1", "then2", "then3"}, order)
}

// Scenario 4: streaming generator with six results, tap counts them.
func TestScenario_StreamingGeneratorWithTap(t *testing.T) {
	exec := NewExecutor(nil, nil)
	gen := Run(context.Background(), exec, "gen", func(ctx context.Context, self Future[int]) (int, error) {
		for i := 1; i <= 6; i++ {
			if i > 1 {
				time.Sleep(100 * time.Millisecond)
			}
			self.ReportResult(i, -1)
		}
		return 6, nil
	})

	var mu sync.Mutex
	var tapped []int
	tapFuture := Tap(context.Background(), gen, Inline, nil, "tap", func(ctx context.Context, v int) {
		mu.Lock()
		tapped = append(tapped, v)
		mu.Unlock()
	})

	require.NoError(t, tapFuture.WaitForFinished())
	downstream, err := tapFuture.Results()
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, tapped)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, downstream)
}

// TestTap_LateAttachReplaysExistingResults covers spec §8's "cb invoked
// exactly result_count(U) times": attaching to an upstream that already
// finished with results must still deliver every one of them, not just the
// canceled/finished edge.
func TestTap_LateAttachReplaysExistingResults(t *testing.T) {
	var mu sync.Mutex
	var tapped []int
	tapFuture := Tap(context.Background(), Ready(7), Inline, nil, "t", func(ctx context.Context, v int) {
		mu.Lock()
		tapped = append(tapped, v)
		mu.Unlock()
	})

	require.NoError(t, tapFuture.WaitForFinished())
	downstream, err := tapFuture.Results()
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{7}, tapped)
	require.Equal(t, []int{7}, downstream)
}

// Scenario 5: cancel-from-downstream propagates upstream.
func TestScenario_CancelFromDownstreamPropagatesUpstream(t *testing.T) {
	var then1Ran, then2Ran bool

	gen := RunDedicated(context.Background(), "gen", nil, func(ctx context.Context, self Future[int]) (int, error) {
		for {
			self.SuspendIfRequested(ctx)
			if self.IsCanceled() {
				return 0, ErrCancelRequested
			}
			self.ReportResult(5, -1)
			select {
			case <-time.After(50 * time.Millisecond):
			case <-ctx.Done():
				return 0, ErrCancelRequested
			}
		}
	})

	then1 := Then(context.Background(), gen, Inline, nil, "then1", func(ctx context.Context, up Future[int]) (int, error) {
		then1Ran = true
		return 0, nil
	})
	then2 := Then(context.Background(), then1, Inline, nil, "then2", func(ctx context.Context, up Future[int]) (int, error) {
		then2Ran = true
		return 0, nil
	})

	then2.Cancel()

	done := make(chan struct{})
	go func() {
		_ = gen.WaitForFinished()
		_ = then1.WaitForFinished()
		_ = then2.WaitForFinished()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cancel did not propagate upstream within the bound")
	}

	require.True(t, gen.IsCanceled())
	require.True(t, then1.IsCanceled())
	require.True(t, then2.IsCanceled())
	require.False(t, then1Ran)
	require.False(t, then2Ran)
}

// Scenario 6: exception propagation through then, finally still runs.
func TestScenario_ExceptionPropagationThroughThen(t *testing.T) {
	wantErr := errors.New("boom")
	thenCalled := false
	finallyCalled := false

	exec := NewExecutor(nil, nil)
	up := Run(context.Background(), exec, "fails", func(ctx context.Context, self Future[int]) (int, error) {
		return 0, wantErr
	})

	thenF := Then(context.Background(), up, Inline, nil, "then", func(ctx context.Context, u Future[int]) (int, error) {
		thenCalled = true
		return 0, nil
	})
	finallyF := Finally(context.Background(), thenF, Inline, nil, "finally", func(ctx context.Context) error {
		finallyCalled = true
		return nil
	})

	require.NoError(t, finallyF.WaitForFinished())
	require.False(t, thenCalled)
	require.True(t, finallyCalled)

	_, err := thenF.Results()
	require.Error(t, err)
	require.True(t, errors.Is(err, wantErr) || errors.Unwrap(err) == wantErr)
}
