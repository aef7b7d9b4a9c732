package queue

import (
	"context"
	"sync"
)

// Priority selects the lane an item lands in. Higher lanes are always
// drained before lower ones; within a lane, order is first-in-first-out.
type Priority int

const (
	Low Priority = iota
	Normal
	High

	numLanes
)

func (p Priority) String() string {
	switch p {
	case Low:
		return "low"
	case Normal:
		return "normal"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// Queue is an unbounded multi-producer/multi-consumer queue with a fixed
// set of priority lanes. Push never blocks. Pop leases the next item; the
// consumer must call Done once it has finished with it, including any
// re-enqueue it performed while holding the lease.
//
// Close stops new producer work but is not terminal on its own: leased
// items may still push follow-ups, so consumers keep draining until the
// queue is closed, empty, and lease-free. Only then does Pop report false
// and Push start dropping.
type Queue[T any] struct {
	mu     sync.Mutex
	lanes  [numLanes][]T
	wake   chan struct{}
	closed bool
	leased int
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{wake: make(chan struct{}, 1)}
}

// Push appends v to the lane for pri. Pushes are accepted until the queue
// has fully terminated (closed, empty, and no outstanding leases); after
// that they are dropped.
func (q *Queue[T]) Push(v T, pri Priority) {
	q.mu.Lock()
	if q.terminatedLocked() {
		q.mu.Unlock()
		return
	}
	q.lanes[pri] = append(q.lanes[pri], v)
	q.mu.Unlock()
	q.signal()
}

// Pop removes and leases the next item, preferring higher lanes. It
// reports false once the queue has terminated, or once ctx is done.
func (q *Queue[T]) Pop(ctx context.Context) (T, bool) {
	var zero T
	for {
		q.mu.Lock()
		for pri := numLanes - 1; pri >= Low; pri-- {
			lane := q.lanes[pri]
			if len(lane) == 0 {
				continue
			}
			v := lane[0]
			lane[0] = zero
			q.lanes[pri] = lane[1:]
			q.leased++
			remaining := q.sizeLocked()
			q.mu.Unlock()
			if remaining > 0 {
				// A single wake token can be consumed by a popper that
				// then races another producer; re-signal so no waiter
				// sleeps while items remain.
				q.signal()
			}
			return v, true
		}
		if q.terminatedLocked() {
			q.mu.Unlock()
			// Cascade so every other blocked consumer also exits.
			q.signal()
			return zero, false
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return zero, false
		case <-q.wake:
		}
	}
}

// Done releases one lease taken by Pop. A consumer that re-enqueues while
// leased must push before calling Done, or the queue may terminate in
// between and drop the item.
func (q *Queue[T]) Done() {
	q.mu.Lock()
	if q.leased > 0 {
		q.leased--
	}
	q.mu.Unlock()
	q.signal()
}

// Close marks the queue as accepting no further producer work. Items
// already queued, and any follow-ups pushed by still-leased consumers,
// can still be popped.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

// Len reports the total number of queued items across all lanes.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.sizeLocked()
}

func (q *Queue[T]) terminatedLocked() bool {
	return q.closed && q.leased == 0 && q.sizeLocked() == 0
}

func (q *Queue[T]) sizeLocked() int {
	n := 0
	for _, lane := range q.lanes {
		n += len(lane)
	}
	return n
}

func (q *Queue[T]) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
