package queue

import (
	"sync/atomic"
	"unsafe"

	"github.com/ScottSallinen/pregel/enforce"
	"github.com/ScottSallinen/pregel/utils"
)

// Every node owns a power of two ring within one shared slab. Slots carry sequence
// numbers so producers claim a slot with a single CAS and never wait on each other.
type Bounded struct {
	offsets []uint64 // Ring of node v is slab[offsets[v]:offsets[v+1]].
	enqueue []uint64 // Next position to claim, per node. Shared by producers.
	dequeue []uint64 // Next position to read, per node. Consumer only.
	slab    []slot
}

type slot struct {
	position uint64
	item     Item
}

// Sizes the ring of each node to RoundUpPow(capacity(node)).
func NewBounded(nodeCount uint32, capacity func(node uint32) uint64) *Bounded {
	q := &Bounded{
		offsets: make([]uint64, uint64(nodeCount)+1),
		enqueue: make([]uint64, nodeCount),
		dequeue: make([]uint64, nodeCount),
	}
	for v := uint32(0); v < nodeCount; v++ {
		q.offsets[v+1] = q.offsets[v] + utils.RoundUpPow(capacity(v))
	}
	q.slab = make([]slot, q.offsets[nodeCount])
	for v := uint32(0); v < nodeCount; v++ {
		start, end := q.offsets[v], q.offsets[v+1]
		for i := start; i < end; i++ {
			q.slab[i].position = i - start
		}
	}
	return q
}

// Ring of the node and its index mask. A node without slots has a nil ring.
func (q *Bounded) ring(target uint32) ([]slot, uint64) {
	r := q.slab[q.offsets[target]:q.offsets[target+1]]
	return r, uint64(len(r)) - 1
}

func (q *Bounded) Capacity(target uint32) uint64 {
	return q.offsets[target+1] - q.offsets[target]
}

func (q *Bounded) push(target uint32, item Item) {
	r, mask := q.ring(target)
	if len(r) == 0 {
		enforce.FAIL("message sent to node", target, "which has no inbox capacity")
	}
	for {
		pos := atomic.LoadUint64(&q.enqueue[target])
		n := &r[pos&mask]
		seq := atomic.LoadUint64(&n.position)
		if seq == pos {
			if atomic.CompareAndSwapUint64(&q.enqueue[target], pos, pos+1) {
				n.item = item
				atomic.StoreUint64(&n.position, pos+1)
				return
			}
		} else if seq < pos {
			// The slot one lap behind has not been read yet: the ring is full.
			enforce.FAIL("inbox of node", target, "overflowed its capacity of", len(r))
		}
		// Another producer claimed pos first; retry on the next position.
	}
}

func (q *Bounded) Push(target uint32, value float64) {
	q.push(target, Item{Value: value, Kind: Message})
}

func (q *Bounded) PushBarrier(target uint32) {
	q.push(target, Item{Kind: Barrier})
}

func (q *Bounded) Pop(target uint32) (item Item, ok bool) {
	r, mask := q.ring(target)
	if len(r) == 0 {
		return item, false
	}
	pos := q.dequeue[target]
	n := &r[pos&mask]
	if atomic.LoadUint64(&n.position) == pos+1 {
		item = n.item
		q.dequeue[target] = pos + 1
		atomic.StoreUint64(&n.position, pos+mask+1)
		return item, true
	}
	return item, false
}

func (q *Bounded) Release() {
	q.offsets, q.enqueue, q.dequeue, q.slab = nil, nil, nil, nil
}

// Slab bytes for the given total capacity, plus the per node counters.
func BoundedMemory(nodeCount uint64, totalSlots uint64) uint64 {
	slotBytes := uint64(unsafe.Sizeof(slot{}))
	return totalSlots*slotBytes + (nodeCount+1)*8 + 2*nodeCount*8
}
