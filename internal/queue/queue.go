// Package queue implements the bounded transfer queue of spec.md §4.2: a
// capacity-2 FIFO between host morsel preparation and accelerator
// execution, sized so peak accelerator memory is pinned at two in-flight
// morsels regardless of host speed (spec.md §9 "Backpressure via bounded
// queue").
//
// The contract mirrors the single-producer/single-consumer queues in
// _examples/hayabusa-cloud-lfq (Push/Pop, explicit Close that drains
// in-flight items before signalling closure) but is implemented with a
// native buffered channel rather than a lock-free ring buffer: that package
// targets lock-free SPSC/MPSC/MPMC rings over its own atomix primitives,
// which this module has no other use for, while a buffered channel already
// gives FIFO-ordered bounded backpressure with the exact close semantics
// the spec calls for. The data channel itself is never closed (only a
// separate signal channel is), so a racing Enqueue can never panic on a
// send to a closed channel.
package queue

import (
	"sync"

	"github.com/truenodb/trueno/internal/batch"
	"github.com/truenodb/trueno/internal/xerr"
)

// TransferQueue is a bounded FIFO of morsels. Capacity is fixed at
// construction (spec.md §6.3 TRANSFER_CAP, default 2).
type TransferQueue struct {
	ch        chan *batch.Batch
	closed    chan struct{}
	closeOnce sync.Once
}

// New creates a transfer queue with the given capacity.
func New(capacity int) *TransferQueue {
	if capacity < 1 {
		panic("queue: capacity must be positive")
	}
	return &TransferQueue{
		ch:     make(chan *batch.Batch, capacity),
		closed: make(chan struct{}),
	}
}

// Enqueue blocks until there is room in the queue, then inserts m in FIFO
// order. It returns xerr.QueueClosed if the queue has been closed, either
// before or while waiting for room.
func (q *TransferQueue) Enqueue(m *batch.Batch) error {
	// Check closure first: with room in the buffer, the select below could
	// otherwise pick the send even though the queue is already closed.
	select {
	case <-q.closed:
		return xerr.Wrap(xerr.QueueClosed, "enqueue", nil)
	default:
	}
	select {
	case q.ch <- m:
		return nil
	case <-q.closed:
		return xerr.Wrap(xerr.QueueClosed, "enqueue", nil)
	}
}

// Dequeue blocks until an item is available or the queue is closed. ok is
// false only once every already-enqueued item has been delivered and the
// queue is closed — in-flight items are always delivered before closure
// becomes visible to the consumer (spec.md §4.2 "Failure semantics").
func (q *TransferQueue) Dequeue() (m *batch.Batch, ok bool) {
	// Prefer a buffered item over observing closure, so a Close racing
	// with a just-landed Enqueue never drops it.
	select {
	case m := <-q.ch:
		return m, true
	default:
	}
	select {
	case m := <-q.ch:
		return m, true
	case <-q.closed:
		select {
		case m := <-q.ch:
			return m, true
		default:
			return nil, false
		}
	}
}

// Close closes the queue, causing blocked and future Enqueue calls to fail
// with xerr.QueueClosed and Dequeue to drain any buffered items before
// returning ok=false. Close is idempotent and safe to call concurrently
// with Enqueue/Dequeue.
func (q *TransferQueue) Close() {
	q.closeOnce.Do(func() {
		close(q.closed)
	})
}
