package pregel

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/kelindar/bitmap"

	"github.com/ScottSallinen/pregel/graph"
	"github.com/ScottSallinen/pregel/hugearray"
	"github.com/ScottSallinen/pregel/queue"
)

// Owns the contiguous node range [start, end) for the whole run. Reused every superstep.
type computeStep struct {
	start, end uint32
	nodeCount  uint32
	direction  graph.Direction
	graph      graph.Graph // Own traversal copy.
	program    VertexProgram
	values     *hugearray.Float64
	store      queue.Store

	// Receivers of this step's messages (not the senders): the next superstep's activation input.
	senders bitmap.Bitmap
	halted  bitmap.Bitmap // Only bits in [start, end) are ever set.

	ctx      Context
	messages Messages

	computed     uint64
	messagesSent uint64
}

// Recovered from a panicking compute step, so it can be raised again on the caller.
type workerPanic struct {
	value any
	stack []byte
}

func (w *workerPanic) Error() string {
	return fmt.Sprintf("compute step panicked: %v", w.value)
}

func recoverPanic(err *error) {
	if r := recover(); r != nil {
		*err = &workerPanic{value: r, stack: debug.Stack()}
	}
}

// Pushes a barrier to every node of the range that was sent something last superstep.
func (s *computeStep) insertBarriers(ctx context.Context, sentTo bitmap.Bitmap) (err error) {
	defer recoverPanic(&err)
	for v := s.start; v < s.end; v++ {
		if (v-s.start)%CANCEL_CHECK_INTERVAL == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if sentTo.Contains(v) {
			s.store.PushBarrier(v)
		}
	}
	return nil
}

// Runs the program on every eligible node of the range.
func (s *computeStep) run(ctx context.Context, superstep int, sentTo, halted bitmap.Bitmap) (err error) {
	defer recoverPanic(&err)
	clearLocalSet(s.senders)
	clearLocalSet(s.halted)
	s.computed = 0
	s.messagesSent = 0
	s.ctx.step = s
	s.ctx.superstep = superstep

	for v := s.start; v < s.end; v++ {
		if (v-s.start)%CANCEL_CHECK_INTERVAL == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		received := sentTo.Contains(v)
		if !received && halted.Contains(v) {
			s.halted.Set(v) // Stays halted.
			continue
		}

		s.ctx.node = v
		s.ctx.halt = false
		s.messages.reset(s.store, v, received)
		if err := s.program.Compute(&s.ctx, &s.messages); err != nil {
			return err
		}
		s.messages.discard()
		if s.ctx.halt {
			s.halted.Set(v)
		}
		s.computed++
	}
	return nil
}
