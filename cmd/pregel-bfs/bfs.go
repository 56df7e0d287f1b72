package main

import (
	"errors"
	"math"

	"github.com/ScottSallinen/pregel/graph"
	"github.com/ScottSallinen/pregel/pregel"
)

var ErrUnknownSource = errors.New("source node not in graph")

// Hop distance from a single source. Unreached nodes keep +Inf.
// Distances only ever decrease, so async execution reaches the same fixpoint.
type BFS struct {
	Source uint32 // Dense id.
	Async  bool
}

func (b *BFS) SupportsAsyncExecution() bool {
	return b.Async
}

func (b *BFS) Compute(ctx *pregel.Context, messages *pregel.Messages) error {
	if ctx.IsInitialSuperstep() {
		if ctx.NodeID() == b.Source {
			ctx.SetValue(0)
			ctx.SendToNeighbors(1)
		}
		ctx.VoteToHalt()
		return nil
	}
	best := ctx.Value()
	for messages.Next() {
		best = min(best, messages.Value())
	}
	if best < ctx.Value() {
		ctx.SetValue(best)
		ctx.SendToNeighbors(best + 1)
	}
	ctx.VoteToHalt()
	return nil
}

func Factory(source uint32, async bool) pregel.ProgramFactory {
	return func() pregel.VertexProgram { return &BFS{Source: source, Async: async} }
}

// Every node starts unreached.
func Configure(cfg pregel.Config) pregel.Config {
	cfg.DefaultValue = math.Inf(1)
	cfg.InitialValues = nil
	return cfg
}

// Finds the dense id of a raw id.
func DenseID(g *graph.CSR, raw uint32) (uint32, error) {
	rawIds := g.RawIDs()
	if rawIds == nil {
		if raw < g.NodeCount() {
			return raw, nil
		}
		return 0, ErrUnknownSource
	}
	for i, r := range rawIds {
		if r == raw {
			return uint32(i), nil
		}
	}
	return 0, ErrUnknownSource
}

// Number of nodes with a finite distance, and the largest such distance.
func Reached(distances []float64) (count int, eccentricity float64) {
	for _, d := range distances {
		if !math.IsInf(d, 1) {
			count++
			eccentricity = max(eccentricity, d)
		}
	}
	return count, eccentricity
}
