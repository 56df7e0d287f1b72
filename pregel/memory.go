package pregel

import (
	"fmt"

	"github.com/ScottSallinen/pregel/hugearray"
	"github.com/ScottSallinen/pregel/queue"
	"github.com/ScottSallinen/pregel/utils"
)

// Bytes, inclusive.
type MemoryRange struct {
	Min uint64
	Max uint64
}

func (r MemoryRange) Add(o MemoryRange) MemoryRange {
	return MemoryRange{r.Min + o.Min, r.Max + o.Max}
}

func (r MemoryRange) union(o MemoryRange) MemoryRange {
	return MemoryRange{min(r.Min, o.Min), max(r.Max, o.Max)}
}

func (r MemoryRange) String() string {
	const mib = 1024.0 * 1024.0
	return fmt.Sprintf("[%.2f MiB ... %.2f MiB]", float64(r.Min)/mib, float64(r.Max)/mib)
}

func bitsetBytes(nodeCount uint64) uint64 {
	return utils.CeilDiv(nodeCount, 64) * 8
}

// Estimates the memory a run allocates, before building it. relCount is the number of
// relationships messages travel along. QueueAuto covers both strategies.
func MemoryEstimate(nodeCount, relCount uint64, concurrency int, strategy QueueStrategy, async bool) MemoryRange {
	concurrency = max(concurrency, 1)
	values := hugearray.MemoryEstimate(nodeCount)
	total := MemoryRange{values, values}

	// Merged sent-to and halted, plus two local sets per compute step. Reduction
	// keeps up to one intermediate per step alive.
	bits := bitsetBytes(nodeCount)
	steps := uint64(concurrency)
	total = total.Add(MemoryRange{
		Min: 2*bits + 2*bits,
		Max: 2*bits + 2*steps*bits + steps*bits,
	})

	switch strategy {
	case QueueBounded:
		total = total.Add(boundedEstimate(nodeCount, relCount, async))
	case QueueUnbounded:
		total = total.Add(linkedEstimate(nodeCount, relCount, async))
	default:
		total = total.Add(boundedEstimate(nodeCount, relCount, async).union(linkedEstimate(nodeCount, relCount, async)))
	}
	return total
}

func boundedEstimate(nodeCount, relCount uint64, async bool) MemoryRange {
	// Receive degrees sum to relCount; a node owns at most one barrier slot.
	minSlots := 2 * relCount
	maxSlots := 2 * relCount
	if !async {
		minSlots += min(nodeCount, relCount)
		maxSlots += nodeCount
	}
	// Each ring rounds up to a power of two, which at most doubles it.
	return MemoryRange{
		Min: queue.BoundedMemory(nodeCount, minSlots),
		Max: queue.BoundedMemory(nodeCount, 2*maxSlots),
	}
}

func linkedEstimate(nodeCount, relCount uint64, async bool) MemoryRange {
	fixed, perMessage := queue.LinkedMemory(nodeCount)
	// Up to two supersteps of messages queued at once, plus a barrier per node.
	queued := 2 * relCount
	if !async {
		queued += nodeCount
	}
	return MemoryRange{Min: fixed, Max: fixed + queued*perMessage}
}

// Estimate for a built engine from its graph and config.
func (p *Pregel) MemoryEstimate() MemoryRange {
	n := p.graph.NodeCount()
	var rel uint64
	for v := uint32(0); v < n; v++ {
		rel += uint64(p.graph.Degree(v, p.config.Direction))
	}
	return MemoryEstimate(uint64(n), rel, len(p.steps), p.strategy, p.async)
}
