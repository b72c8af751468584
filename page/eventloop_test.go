package page

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runDirect(t task) { t() }

func TestEventLoopOrder(t *testing.T) {
	el := newEventLoop()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		el.queueTask(func() { got = append(got, i) })
	}

	assert.True(t, el.hasPending())
	assert.Equal(t, 5, el.drain(runDirect))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	assert.False(t, el.runOnce(runDirect))
}

func TestEventLoopTasksQueuedWhileDraining(t *testing.T) {
	el := newEventLoop()
	var got []string
	el.queueTask(func() {
		got = append(got, "first")
		el.queueTask(func() { got = append(got, "queued by first") })
	})
	el.queueTask(func() { got = append(got, "second") })

	assert.Equal(t, 3, el.drain(runDirect))
	assert.Equal(t, []string{"first", "second", "queued by first"}, got)
}

func TestEventLoopClear(t *testing.T) {
	el := newEventLoop()
	el.queueTask(func() { t.Error("cleared task ran") })
	el.clear()
	assert.False(t, el.hasPending())
	assert.Zero(t, el.drain(runDirect))
}

func TestEventLoopRun(t *testing.T) {
	el := newEventLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ran := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- el.run(ctx, runDirect) }()

	el.queueTask(func() { close(ran) })
	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("task was not run")
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
