package notify

import (
	"context"
	"errors"
	"sync"
)

// ErrDispatcherClosed is returned by Dispatch after Close.
var ErrDispatcherClosed = errors.New("dispatcher closed")

// Inline delivers on the caller's goroutine, so observers have run by the
// time the write returns.
type Inline struct {
	deliver DeliverFunc
}

// NewInline creates an inline dispatcher.
func NewInline(deliver DeliverFunc) *Inline {
	return &Inline{deliver: deliver}
}

func (d *Inline) Dispatch(_ context.Context, c Change) error {
	d.deliver(c)
	return nil
}

// Async delivers from a background goroutine. Dispatch never blocks: when
// the buffer is full the change gets its own goroutine.
type Async struct {
	deliver DeliverFunc
	queue   chan Change

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAsync starts an async dispatcher with the given buffer size.
func NewAsync(deliver DeliverFunc, size int) *Async {
	if size <= 0 {
		size = 64
	}
	d := &Async{
		deliver: deliver,
		queue:   make(chan Change, size),
	}
	d.wg.Add(1)
	go d.loop()
	return d
}

func (d *Async) loop() {
	defer d.wg.Done()
	for c := range d.queue {
		d.deliver(c)
	}
}

func (d *Async) Dispatch(_ context.Context, c Change) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- c:
	default:
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.deliver(c)
		}()
	}
	return nil
}

// Close stops accepting changes and waits for queued ones to be delivered.
func (d *Async) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	return nil
}
