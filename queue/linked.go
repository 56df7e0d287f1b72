package queue

import (
	"sync/atomic"
	"unsafe"
)

// Unbounded inboxes: one intrusive MPSC linked list per node. Producers swap the head,
// the consumer follows next pointers from the tail. Each list starts at a stub node
// from a shared slab; a popped node becomes the new stub.
type Linked struct {
	heads []atomic.Pointer[node] // Producer side; last pushed node.
	tails []*node                // Consumer side; the current stub.
	stubs []node
	nodes atomic.Uint64 // Allocated (non stub) nodes, for memory accounting.
}

type node struct {
	next atomic.Pointer[node]
	item Item
}

func NewLinked(nodeCount uint32) *Linked {
	q := &Linked{
		heads: make([]atomic.Pointer[node], nodeCount),
		tails: make([]*node, nodeCount),
		stubs: make([]node, nodeCount),
	}
	for v := range q.stubs {
		q.heads[v].Store(&q.stubs[v])
		q.tails[v] = &q.stubs[v]
	}
	return q
}

func (q *Linked) push(target uint32, item Item) {
	n := &node{item: item}
	q.nodes.Add(1)
	prev := q.heads[target].Swap(n)
	// Between the swap and this store the list is briefly cut; the consumer sees it as empty from prev on.
	prev.next.Store(n)
}

func (q *Linked) Push(target uint32, value float64) {
	q.push(target, Item{Value: value, Kind: Message})
}

func (q *Linked) PushBarrier(target uint32) {
	q.push(target, Item{Kind: Barrier})
}

func (q *Linked) Pop(target uint32) (item Item, ok bool) {
	tail := q.tails[target]
	next := tail.next.Load()
	if next == nil {
		return item, false
	}
	q.tails[target] = next
	item = next.item
	next.item = Item{}
	return item, true
}

// Nodes allocated over the lifetime of the store.
func (q *Linked) Allocated() uint64 {
	return q.nodes.Load()
}

func (q *Linked) Release() {
	q.heads, q.tails, q.stubs = nil, nil, nil
}

// Per node overhead of the list heads, tails and stubs, and the size of one queued node.
func LinkedMemory(nodeCount uint64) (fixed uint64, perMessage uint64) {
	nodeBytes := uint64(unsafe.Sizeof(node{}))
	return nodeCount * (8 + 8 + nodeBytes), nodeBytes
}
