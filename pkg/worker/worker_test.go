package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerManager_ProcessesJobs(t *testing.T) {
	w := NewWorkerManager(10, 3)
	var sum int64
	w.SetWorker(func(_ int, job interface{}) {
		atomic.AddInt64(&sum, int64(job.(int)))
	})

	done := make(chan struct{})
	go func() {
		w.Start()
		close(done)
	}()

	for i := 1; i <= 10; i++ {
		require.NoError(t, w.Enqueue(context.Background(), i))
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt64(&sum) == 55 }, time.Second, 10*time.Millisecond)

	w.Exit()
	w.Exit()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("workers did not exit")
	}
}

func TestWorkerManager_EnqueueAfterExit(t *testing.T) {
	w := NewWorkerManager(0, 1)
	w.Exit()

	err := w.Enqueue(context.Background(), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWorkerManager_EnqueueContextDone(t *testing.T) {
	w := NewWorkerManager(0, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, w.Enqueue(ctx, 1), context.Canceled)
}
