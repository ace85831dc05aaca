package session

import (
	"context"
	"sync"
)

// Queue is an unbounded FIFO with one sender and one receiver.
//
// Send never blocks. Recv blocks until a value arrives, the sender closes
// the queue, or the context is done.
type Queue[T any] struct {
	mu       sync.Mutex
	items    []T
	closed   bool // sender is gone
	detached bool // receiver is gone
	signal   chan struct{}
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{signal: make(chan struct{}, 1)}
}

// Send appends v. It fails with ErrChannelDisconnected once either end has
// hung up.
func (q *Queue[T]) Send(v T) error {
	q.mu.Lock()
	if q.closed || q.detached {
		q.mu.Unlock()
		return ErrChannelDisconnected
	}
	q.items = append(q.items, v)
	q.mu.Unlock()
	q.notify()
	return nil
}

// Recv removes and returns the oldest value. Values sent before Close are
// still delivered; after that Recv returns ErrChannelDisconnected.
func (q *Queue[T]) Recv(ctx context.Context) (T, error) {
	for {
		v, ok, err := q.TryRecv()
		if ok || err != nil {
			return v, err
		}
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-q.signal:
		}
	}
}

// TryRecv is the non-blocking form of Recv.
func (q *Queue[T]) TryRecv() (T, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) > 0 {
		v := q.items[0]
		q.items[0] = zero
		q.items = q.items[1:]
		return v, true, nil
	}
	if q.closed || q.detached {
		return zero, false, ErrChannelDisconnected
	}
	return zero, false, nil
}

// Close hangs up the sending end.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.notify()
}

// Detach hangs up the receiving end and drops anything still queued.
func (q *Queue[T]) Detach() {
	q.mu.Lock()
	q.detached = true
	q.items = nil
	q.mu.Unlock()
	q.notify()
}

// Len returns the number of queued values.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue[T]) notify() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}
