package main

import (
	"github.com/ScottSallinen/pregel/pregel"
	"github.com/ScottSallinen/pregel/utils"
)

// Minimum label propagation. Each node ends labelled with the smallest dense id of its component.
// Labels only ever decrease, so the result does not depend on message order.
type CC struct {
	Async bool
}

func (cc *CC) SupportsAsyncExecution() bool {
	return cc.Async
}

func (*CC) Compute(ctx *pregel.Context, messages *pregel.Messages) error {
	if ctx.IsInitialSuperstep() {
		ctx.SetValue(float64(ctx.NodeID()))
		ctx.SendToNeighbors(ctx.Value())
		ctx.VoteToHalt()
		return nil
	}
	current := ctx.Value()
	best := current
	for messages.Next() {
		best = min(best, messages.Value())
	}
	if best < current {
		ctx.SetValue(best)
		ctx.SendToNeighbors(best)
	}
	ctx.VoteToHalt()
	return nil
}

func Factory(async bool) pregel.ProgramFactory {
	return func() pregel.VertexProgram { return &CC{Async: async} }
}

// Number of distinct labels.
func CountComponents(labels []float64) int {
	unique := make(map[float64]struct{})
	for _, l := range labels {
		unique[l] = struct{}{}
	}
	return len(unique)
}

// Sizes of the largest components, largest first, paired with their label.
func LargestComponents(labels []float64, count int) []utils.Pair[uint32, int] {
	sizes := make([]int, len(labels))
	for _, l := range labels {
		sizes[uint32(l)]++
	}
	order := utils.SortGiveIndexesLargestFirst(sizes)
	top := make([]utils.Pair[uint32, int], 0, count)
	for _, idx := range order {
		if len(top) == count || sizes[idx] == 0 {
			break
		}
		top = append(top, utils.Pair[uint32, int]{First: uint32(idx), Second: sizes[idx]})
	}
	return top
}
