package main

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/ScottSallinen/pregel/graph"
	"github.com/ScottSallinen/pregel/pregel"
)

func randomEdges(n int, m int, seed int64) [][2]uint32 {
	rng := rand.New(rand.NewSource(seed))
	edges := make([][2]uint32, m)
	for i := range edges {
		edges[i] = [2]uint32{uint32(rng.Intn(n)), uint32(rng.Intn(n))}
	}
	return edges
}

// Unit weight shortest paths are hop counts.
func oracle(n int, edges [][2]uint32, source int64) []float64 {
	dg := simple.NewDirectedGraph()
	for i := 0; i < n; i++ {
		dg.AddNode(simple.Node(i))
	}
	for _, e := range edges {
		if e[0] != e[1] {
			dg.SetEdge(simple.Edge{F: simple.Node(e[0]), T: simple.Node(e[1])})
		}
	}
	shortest := path.DijkstraFrom(simple.Node(source), dg)
	distances := make([]float64, n)
	for i := range distances {
		distances[i] = shortest.WeightTo(int64(i))
	}
	return distances
}

func TestBFSMatchesOracle(t *testing.T) {
	const n = 400
	edges := randomEdges(n, 900, 11)
	expected := oracle(n, edges, 0)

	for _, async := range []bool{false, true} {
		for _, queue := range []pregel.QueueStrategy{pregel.QueueBounded, pregel.QueueUnbounded} {
			g := graph.FromEdges(n, edges, false, true)
			cfg := pregel.DefaultConfig()
			cfg.Concurrency = 3
			cfg.BatchSize = 1
			cfg.MaxSupersteps = n + 1
			cfg.Queue = queue

			result, err := pregel.Run(context.Background(), g, Configure(cfg), Factory(0, async))
			require.NoError(t, err)
			assert.True(t, result.Converged)
			assert.Equal(t, expected, result.Values.ToSlice(), "async %v queue %s", async, queue)
		}
	}
}

func TestBFSTestGraph(t *testing.T) {
	g, err := graph.LoadEdgeList("../../data/test.txt", graph.LoadOptions{Reverse: true})
	require.NoError(t, err)
	source, err := DenseID(g, 1)
	require.NoError(t, err)
	_, err = DenseID(g, 99)
	assert.ErrorIs(t, err, ErrUnknownSource)

	cfg := pregel.DefaultConfig()
	cfg.Concurrency = 2
	result, err := pregel.Run(context.Background(), g, Configure(cfg), Factory(source, false))
	require.NoError(t, err)

	byRaw := map[uint32]float64{}
	for node, d := range result.Values.ToSlice() {
		byRaw[g.RawID(uint32(node))] = d
	}
	assert.Equal(t, map[uint32]float64{1: 0, 2: 1, 3: 1, 4: 1, 5: 2, 6: 3}, byRaw)

	reached, eccentricity := Reached(result.Values.ToSlice())
	assert.Equal(t, 6, reached)
	assert.Equal(t, 3.0, eccentricity)
}

func TestBFSUnreached(t *testing.T) {
	g := graph.FromEdges(3, [][2]uint32{{0, 1}}, false, true)
	cfg := pregel.DefaultConfig()
	cfg.Concurrency = 1
	result, err := pregel.Run(context.Background(), g, Configure(cfg), Factory(0, false))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, math.Inf(1)}, result.Values.ToSlice())
	reached, _ := Reached(result.Values.ToSlice())
	assert.Equal(t, 2, reached)
}
