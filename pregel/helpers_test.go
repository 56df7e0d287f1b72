package pregel

import (
	"math/rand"
	"sync"

	"github.com/ScottSallinen/pregel/graph"
)

type programFunc func(ctx *Context, messages *Messages) error

func (f programFunc) Compute(ctx *Context, messages *Messages) error {
	return f(ctx, messages)
}

type asyncProgram struct {
	programFunc
}

func (asyncProgram) SupportsAsyncExecution() bool { return true }

func factoryOf(f programFunc) ProgramFactory {
	return func() VertexProgram { return f }
}

func asyncFactoryOf(f programFunc) ProgramFactory {
	return func() VertexProgram { return asyncProgram{f} }
}

func testConfig(concurrency int) Config {
	cfg := DefaultConfig()
	cfg.Concurrency = concurrency
	cfg.BatchSize = 1
	cfg.MaxSupersteps = 50
	return cfg
}

// Sums the inbox into the value and forwards the new value, only when something arrived.
var chainProgram = programFunc(func(ctx *Context, messages *Messages) error {
	if ctx.IsInitialSuperstep() {
		ctx.SetValue(1)
		ctx.SendToNeighbors(1)
	} else {
		sum, received := 0.0, false
		for messages.Next() {
			sum += messages.Value()
			received = true
		}
		if received {
			ctx.SetValue(ctx.Value() + sum)
			ctx.SendToNeighbors(ctx.Value())
		}
	}
	ctx.VoteToHalt()
	return nil
})

// Minimum label propagation; exact regardless of message order.
var minLabelProgram = programFunc(func(ctx *Context, messages *Messages) error {
	if ctx.IsInitialSuperstep() {
		ctx.SetValue(float64(ctx.NodeID()))
		ctx.SendToNeighbors(ctx.Value())
	} else {
		current := ctx.Value()
		best := current
		for messages.Next() {
			best = min(best, messages.Value())
		}
		if best < current {
			ctx.SetValue(best)
			ctx.SendToNeighbors(best)
		}
	}
	ctx.VoteToHalt()
	return nil
})

// Never halts; each superstep counts the messages received and sends one to every neighbour.
var floodProgram = programFunc(func(ctx *Context, messages *Messages) error {
	count := 0.0
	for messages.Next() {
		count++
	}
	ctx.SetValue(ctx.Value() + count)
	ctx.SendToNeighbors(1)
	return nil
})

func randomGraph(seed int64, nodes uint32, edges int, undirected bool) *graph.CSR {
	r := rand.New(rand.NewSource(seed))
	pairs := make([][2]uint32, 0, edges)
	// Leave the last few nodes isolated.
	active := nodes - nodes/10
	for i := 0; i < edges; i++ {
		pairs = append(pairs, [2]uint32{uint32(r.Intn(int(active))), uint32(r.Intn(int(active)))})
	}
	return graph.FromEdges(nodes, pairs, undirected, true)
}

// Records the supersteps each node computed in.
type computeLog struct {
	mu    sync.Mutex
	steps map[uint32][]int
}

func (l *computeLog) record(ctx *Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.steps == nil {
		l.steps = make(map[uint32][]int)
	}
	l.steps[ctx.NodeID()] = append(l.steps[ctx.NodeID()], ctx.Superstep())
}
