package beaverlog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerOrder(t *testing.T) {
	w := newWorker(4, nil)
	defer w.close()

	var mu sync.Mutex
	var got []int
	for i := 0; i < 100; i++ {
		i := i
		require.True(t, w.enqueue(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}))
	}
	require.NoError(t, w.barrier(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestWorkerDoWaits(t *testing.T) {
	w := newWorker(0, nil)
	defer w.close()

	done := false
	require.True(t, w.do(func() {
		time.Sleep(10 * time.Millisecond)
		done = true
	}))
	assert.True(t, done)
}

func TestWorkerNestedSubmit(t *testing.T) {
	w := newWorker(1, nil)
	defer w.close()

	var order []string
	finished := make(chan bool, 1)
	go func() {
		finished <- w.do(func() {
			order = append(order, "outer")
			w.do(func() { order = append(order, "nested do") })
			w.enqueue(func() { order = append(order, "nested enqueue") })
			assert.NoError(t, w.barrier(context.Background()))
		})
	}()

	select {
	case ok := <-finished:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("nested submit blocked the worker")
	}
	assert.Equal(t, []string{"outer", "nested do", "nested enqueue"}, order)
}

func TestWorkerBarrierTimeout(t *testing.T) {
	w := newWorker(1, nil)
	release := make(chan struct{})
	w.enqueue(func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.barrier(ctx), context.DeadlineExceeded)

	close(release)
	assert.NoError(t, w.barrier(context.Background()))
	w.close()
}

func TestWorkerBarrierFullQueue(t *testing.T) {
	w := newWorker(1, nil)
	release := make(chan struct{})
	w.enqueue(func() { <-release })
	// fills the single slot behind the running task
	w.enqueue(func() {})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.barrier(ctx), context.DeadlineExceeded)

	close(release)
	w.close()
}

func TestWorkerRecoversPanic(t *testing.T) {
	var mu sync.Mutex
	var errs []error
	w := newWorker(0, func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	})
	defer w.close()

	w.enqueue(func() { panic("boom") })
	ran := false
	w.do(func() { ran = true })

	assert.True(t, ran)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "boom")
}

func TestWorkerClose(t *testing.T) {
	w := newWorker(0, nil)
	count := 0
	for i := 0; i < 10; i++ {
		w.enqueue(func() { count++ })
	}
	w.close()
	assert.Equal(t, 10, count)

	assert.False(t, w.enqueue(func() { count++ }))
	assert.False(t, w.do(func() { count++ }))
	assert.NoError(t, w.barrier(context.Background()))
	assert.Equal(t, 10, count)

	// closing twice is harmless
	w.close()
}

func TestWorkerCloseUnstarted(t *testing.T) {
	w := newWorker(0, nil)
	w.close()
	assert.False(t, w.enqueue(func() {}))
}
