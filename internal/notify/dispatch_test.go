package notify

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsync_DeliversInBackground(t *testing.T) {
	r := NewResolver()
	d := NewAsync(r.Deliver, 4)
	r.SetDispatcher(d)

	release := make(chan struct{})
	var delivered atomic.Int32
	r.RegisterObserver(collection, false, ObserverFunc(func(Change) {
		<-release
		delivered.Add(1)
	}))

	done := make(chan struct{})
	go func() {
		r.NotifyChange(context.Background(), collection)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("NotifyChange blocked on a slow observer")
	}

	close(release)
	require.NoError(t, d.Close())
	assert.Equal(t, int32(1), delivered.Load())
}

func TestAsync_OverflowDoesNotBlock(t *testing.T) {
	var delivered atomic.Int32
	release := make(chan struct{})
	d := NewAsync(func(Change) int {
		<-release
		delivered.Add(1)
		return 1
	}, 1)

	for i := 0; i < 10; i++ {
		require.NoError(t, d.Dispatch(context.Background(), Change{URI: collection}))
	}

	close(release)
	require.NoError(t, d.Close())
	assert.Equal(t, int32(10), delivered.Load())
}

func TestAsync_DispatchAfterClose(t *testing.T) {
	d := NewAsync(func(Change) int { return 0 }, 0)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	err := d.Dispatch(context.Background(), Change{URI: collection})
	assert.ErrorIs(t, err, ErrDispatcherClosed)
}

func TestInline_DeliversBeforeReturn(t *testing.T) {
	var delivered bool
	d := NewInline(func(Change) int {
		delivered = true
		return 1
	})

	require.NoError(t, d.Dispatch(context.Background(), Change{}))
	assert.True(t, delivered)
}
