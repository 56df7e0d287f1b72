// Package queue holds per-node multi-producer single-consumer message inboxes.
// Any goroutine may push to any node; only the goroutine computing a node pops from it.
package queue

type Kind uint8

const (
	Message Kind = iota
	Barrier      // Ends the messages of one superstep.
)

// One inbox entry. A barrier carries no value, so every float64 (NaN included) is a valid message.
type Item struct {
	Value float64
	Kind  Kind
}

func (i Item) IsBarrier() bool {
	return i.Kind == Barrier
}

type Store interface {
	// Thread-safe. Must not block.
	Push(target uint32, value float64)
	// Thread-safe.
	PushBarrier(target uint32)
	// Single consumer per target. False when nothing is currently visible.
	Pop(target uint32) (Item, bool)
	Release()
}

var (
	_ Store = (*Bounded)(nil)
	_ Store = (*Linked)(nil)
)

// Slots a node's bounded inbox needs: up to one superstep of unread messages, one superstep
// being produced, and the barrier between them. A node nothing sends to needs none.
func BoundedCapacity(receiveDegree int, barrier bool) uint64 {
	if receiveDegree <= 0 {
		return 0
	}
	c := 2 * uint64(receiveDegree)
	if barrier {
		c++
	}
	return c
}
