package future

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_PanicBecomesStoredException(t *testing.T) {
	exec := NewExecutor(nil, nil)
	f := Run(context.Background(), exec, "panics", func(ctx context.Context, self Future[int]) (int, error) {
		panic("kaboom")
	})

	require.NoError(t, f.WaitForFinished())
	require.True(t, f.HasException())
	require.Contains(t, f.Exception().Error(), "kaboom")
}

func TestRun_CancelErrorCancelsWithoutException(t *testing.T) {
	exec := NewExecutor(nil, nil)
	f := Run(context.Background(), exec, "cancels", func(ctx context.Context, self Future[int]) (int, error) {
		return 0, &CancelError{ID: self.ID(), Name: self.Name()}
	})

	require.NoError(t, f.WaitForFinished())
	require.True(t, f.IsCanceled())
	require.False(t, f.HasException())
}

func TestRun_ExplicitErrorBecomesException(t *testing.T) {
	wantErr := errors.New("explicit failure")
	exec := NewExecutor(nil, nil)
	f := Run(context.Background(), exec, "errs", func(ctx context.Context, self Future[int]) (int, error) {
		return 0, wantErr
	})

	require.NoError(t, f.WaitForFinished())
	require.True(t, f.HasException())
	require.ErrorIs(t, f.Exception(), wantErr)
}

func TestRunDedicated_ReportsResultAndFinishes(t *testing.T) {
	f := RunDedicated(context.Background(), "dedicated", nil, func(ctx context.Context, self Future[int]) (int, error) {
		return 99, nil
	})
	require.NoError(t, f.WaitForFinished())
	results, err := f.Results()
	require.NoError(t, err)
	require.Equal(t, []int{99}, results)
}
