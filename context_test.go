package future

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInlineContext_RunsSynchronously(t *testing.T) {
	var ran bool
	Inline.Post(func() { ran = true })
	require.True(t, ran)
}

func TestThreadContext_DeliversInOrder(t *testing.T) {
	c := NewThreadContext()
	defer c.Close()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	wg.Add(5)
	for i := 0; i < 5; i++ {
		i := i
		c.Post(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		})
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ThreadContext did not deliver all callbacks in time")
	}

	require.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestThreadContext_PostAfterCloseDoesNotBlock(t *testing.T) {
	c := NewThreadContext()
	c.Close()

	done := make(chan struct{})
	go func() {
		c.Post(func() {})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Post after Close blocked")
	}
}

func TestPoolContext_RunsOnSeparateGoroutine(t *testing.T) {
	c := NewPoolContext(nil)
	done := make(chan struct{})
	c.Post(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("PoolContext did not run posted fn")
	}
}
