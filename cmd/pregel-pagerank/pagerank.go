package main

import (
	"github.com/ScottSallinen/pregel/hugearray"
	"github.com/ScottSallinen/pregel/pregel"
	"github.com/ScottSallinen/pregel/utils"
)

const DAMPING = 0.85

// Normalized PageRank: ranks sum to one when no node is a sink.
// Runs until the superstep limit; rank after superstep s is the result of s power iterations.
type PageRank struct {
	Damping float64
}

func NewPageRank() pregel.VertexProgram {
	return &PageRank{Damping: DAMPING}
}

func (pr *PageRank) Compute(ctx *pregel.Context, messages *pregel.Messages) error {
	n := float64(ctx.NodeCount())
	if ctx.IsInitialSuperstep() {
		ctx.SetValue(1.0 / n)
	} else {
		sum := 0.0
		for messages.Next() {
			sum += messages.Value()
		}
		ctx.SetValue((1.0-pr.Damping)/n + pr.Damping*sum)
	}
	if degree := ctx.Degree(); degree > 0 {
		ctx.SendToNeighbors(ctx.Value() / float64(degree))
	}
	return nil
}

// Total rank is one unless mass leaked through sinks.
func CheckMass(ranks *hugearray.Float64) (total float64, ok bool) {
	total = ranks.Sum()
	return total, utils.FloatEquals(total, 1.0, 1e-6)
}
