package graph

import (
	"github.com/ScottSallinen/pregel/enforce"
)

type Builder struct {
	Undirected bool // Mirror every added edge; the result reports undirected.
	Reverse    bool // Also build the incoming index (ignored when Undirected).
	Transpose  bool // Flip src and dst of every added edge.

	sources   []uint32
	targets   []uint32
	nodeCount uint32
	rawIds    []uint32
}

func NewBuilder(expectedEdges int) *Builder {
	return &Builder{
		sources: make([]uint32, 0, expectedEdges),
		targets: make([]uint32, 0, expectedEdges),
	}
}

// Ensures the graph holds at least count nodes, including isolated ones.
func (b *Builder) EnsureNodes(count uint32) {
	b.nodeCount = max(b.nodeCount, count)
}

func (b *Builder) AddEdge(src, dst uint32) {
	enforce.ENFORCE(src != ^uint32(0) && dst != ^uint32(0), "node id too large")
	if b.Transpose {
		src, dst = dst, src
	}
	b.sources = append(b.sources, src)
	b.targets = append(b.targets, dst)
	b.EnsureNodes(max(src, dst) + 1)
	if b.Undirected && src != dst {
		b.sources = append(b.sources, dst)
		b.targets = append(b.targets, src)
	}
}

// Records the raw ids the dense ids were assigned from. Kept on the built graph.
func (b *Builder) SetRawIDs(rawIds []uint32) {
	b.rawIds = rawIds
	b.EnsureNodes(uint32(len(rawIds)))
}

func (b *Builder) EdgeCount() int {
	return len(b.sources)
}

// Builds with a counting sort; the relationships of each node keep insertion order.
// The builder should not be reused.
func (b *Builder) Build() *CSR {
	g := &CSR{undirected: b.Undirected, rawIds: b.rawIds}
	g.outOffsets, g.outTargets = countingSort(b.nodeCount, b.sources, b.targets)
	if b.Reverse && !b.Undirected {
		g.inOffsets, g.inSources = countingSort(b.nodeCount, b.targets, b.sources)
	}
	b.sources, b.targets = nil, nil
	return g
}

func countingSort(nodeCount uint32, keys []uint32, values []uint32) (offsets []uint64, sorted []uint32) {
	offsets = make([]uint64, uint64(nodeCount)+1)
	for _, k := range keys {
		offsets[k+1]++
	}
	for i := uint32(0); i < nodeCount; i++ {
		offsets[i+1] += offsets[i]
	}
	sorted = make([]uint32, len(values))
	cursor := make([]uint64, nodeCount)
	copy(cursor, offsets[:nodeCount])
	for i, k := range keys {
		sorted[cursor[k]] = values[i]
		cursor[k]++
	}
	return offsets, sorted
}

// Convenience for tests and small graphs: builds from (src, dst) pairs.
func FromEdges(nodeCount uint32, edges [][2]uint32, undirected bool, reverse bool) *CSR {
	b := NewBuilder(len(edges))
	b.Undirected = undirected
	b.Reverse = reverse
	b.EnsureNodes(nodeCount)
	for _, e := range edges {
		b.AddEdge(e[0], e[1])
	}
	return b.Build()
}
