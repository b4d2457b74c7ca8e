package engine

// BoundedQueue is a fixed-capacity FIFO. Enqueue blocks while the queue is
// full and Dequeue blocks while it is empty. Items leave in arrival order.
type BoundedQueue[T any] struct {
	ch chan T
}

// NewBoundedQueue returns an empty queue holding at most capacity items.
func NewBoundedQueue[T any](capacity int) *BoundedQueue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &BoundedQueue[T]{ch: make(chan T, capacity)}
}

// Enqueue appends x, waiting for room if the queue is full.
func (q *BoundedQueue[T]) Enqueue(x T) {
	q.ch <- x
}

// Dequeue removes and returns the oldest item, waiting if the queue is empty.
func (q *BoundedQueue[T]) Dequeue() T {
	return <-q.ch
}

// DequeueOr is Dequeue that gives up once stop is closed. The stop channel
// is checked first, so a closed stop wins even when items are waiting.
func (q *BoundedQueue[T]) DequeueOr(stop <-chan struct{}) (T, bool) {
	select {
	case <-stop:
		var zero T
		return zero, false
	default:
	}
	select {
	case x := <-q.ch:
		return x, true
	case <-stop:
		var zero T
		return zero, false
	}
}

// Len returns the number of queued items.
func (q *BoundedQueue[T]) Len() int { return len(q.ch) }

// Cap returns the queue's capacity.
func (q *BoundedQueue[T]) Cap() int { return cap(q.ch) }
