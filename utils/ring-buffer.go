package utils

import (
	"sync/atomic"
)

// Enqueuer : Producer
// Dequeuer : Consumer

// Single producer, single consumer ring buffer. Hands parsed edge chunks from a reader
// goroutine to the builder goroutine. The multi-producer inbox variant lives in the queue package.
type RingBuffSPSC[T any] struct {
	_           [0]atomic.Int64
	enqueue     uint64
	enqDeqCache uint64
	mask        uint64
	_           [5]uint64
	dequeue     uint64
	deqEnqCache uint64
	status      uint64
	_           [5]uint64
	entries     []T
}

// Will allocate and initialize the ring buffer with the specified size (rounded up to a power of two).
func (rb *RingBuffSPSC[T]) Init(size uint64) {
	size = RoundUpPow(Max(size, 2))
	rb.mask = size - 1
	rb.entries = make([]T, size)
}

// Returns the total capacity of the ring buffer.
func (rb *RingBuffSPSC[T]) Cap() uint64 {
	return rb.mask + 1
}

// Enqueuer: no more items will be added.
func (rb *RingBuffSPSC[T]) Close() {
	atomic.StoreUint64(&rb.status, 1)
}

// Dequeuer: release the buffer after Get reports closed.
func (rb *RingBuffSPSC[T]) End() {
	rb.entries = nil
}

// Enqueuer: adds the item if there is space.
func (rb *RingBuffSPSC[T]) Offer(item T) (ok bool) {
	pos := rb.enqueue
	if pos > rb.enqDeqCache+rb.mask {
		rb.enqDeqCache = atomic.LoadUint64(&rb.dequeue)
		if pos > rb.enqDeqCache+rb.mask {
			return false
		}
	}
	rb.entries[pos&rb.mask] = item
	atomic.StoreUint64(&rb.enqueue, pos+1)
	return true
}

// Enqueuer: adds the item, blocking while full. Returns the number of times it had to back off.
func (rb *RingBuffSPSC[T]) Put(item T) (fails int) {
	for ; !rb.Offer(item); fails++ {
		BackOff(fails) // Full
	}
	return fails
}

// Dequeuer: returns the next item, or false if currently empty.
func (rb *RingBuffSPSC[T]) Accept() (item T, ok bool) {
	pos := rb.dequeue
	if pos >= rb.deqEnqCache {
		rb.deqEnqCache = atomic.LoadUint64(&rb.enqueue)
		if pos >= rb.deqEnqCache {
			return item, false
		}
	}
	item = rb.entries[pos&rb.mask]
	var zero T
	rb.entries[pos&rb.mask] = zero
	atomic.StoreUint64(&rb.dequeue, pos+1)
	return item, true
}

// Dequeuer: blocks until an item is available, or the buffer is closed and drained.
func (rb *RingBuffSPSC[T]) Get() (item T, closed bool, fails int) {
	for ; ; fails++ {
		if item, ok := rb.Accept(); ok {
			return item, false, fails
		}
		if atomic.LoadUint64(&rb.status) == 1 {
			// Items put before Close must still be observed.
			if item, ok := rb.Accept(); ok {
				return item, false, fails
			}
			return item, true, fails
		}
		BackOff(fails) // Empty
	}
}
