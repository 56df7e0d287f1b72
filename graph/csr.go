package graph

import (
	"github.com/ScottSallinen/pregel/enforce"
)

// Compressed sparse row adjacency. Outgoing relationships are always present;
// incoming ones only when built with the reverse index.
type CSR struct {
	outOffsets []uint64 // len NodeCount()+1
	outTargets []uint32
	inOffsets  []uint64 // nil unless the reverse index was built
	inSources  []uint32
	undirected bool     // Every edge was mirrored; out and in adjacency are the same.
	rawIds     []uint32 // Dense id to raw (file) id; nil if ids were not remapped.

	traversed uint64 // Per copy; not shared.
}

var _ Graph = (*CSR)(nil)

func (g *CSR) NodeCount() uint32 {
	return uint32(len(g.outOffsets) - 1)
}

func (g *CSR) RelationshipCount() uint64 {
	return uint64(len(g.outTargets))
}

func (g *CSR) hasIncoming() bool {
	return g.inOffsets != nil || g.undirected
}

func (g *CSR) HasReverseDegree() bool {
	return g.hasIncoming()
}

func (g *CSR) SupportsDirection(dir Direction) bool {
	switch dir {
	case OUTGOING:
		return true
	case INCOMING, BOTH:
		return g.hasIncoming()
	}
	return false
}

func (g *CSR) incoming() (offsets []uint64, neighbours []uint32) {
	if g.undirected {
		return g.outOffsets, g.outTargets
	}
	enforce.ENFORCE(g.inOffsets != nil, "graph was built without incoming relationships")
	return g.inOffsets, g.inSources
}

func (g *CSR) Degree(node uint32, dir Direction) int {
	switch dir {
	case OUTGOING:
		return int(g.outOffsets[node+1] - g.outOffsets[node])
	case INCOMING:
		offsets, _ := g.incoming()
		return int(offsets[node+1] - offsets[node])
	case BOTH:
		if g.undirected {
			// Mirrored edges already appear once per side.
			return g.Degree(node, OUTGOING)
		}
		return g.Degree(node, OUTGOING) + g.Degree(node, INCOMING)
	}
	enforce.FAIL("unknown direction", dir)
	return 0
}

func (g *CSR) ForEachRelationship(node uint32, dir Direction, fn func(source, target uint32) bool) {
	switch dir {
	case OUTGOING:
		g.forEach(node, g.outOffsets, g.outTargets, fn)
	case INCOMING:
		offsets, neighbours := g.incoming()
		g.forEach(node, offsets, neighbours, fn)
	case BOTH:
		if g.undirected {
			g.forEach(node, g.outOffsets, g.outTargets, fn)
			return
		}
		if g.forEach(node, g.outOffsets, g.outTargets, fn) {
			g.forEach(node, g.inOffsets, g.inSources, fn)
		}
	default:
		enforce.FAIL("unknown direction", dir)
	}
}

// Returns false if fn stopped the iteration.
func (g *CSR) forEach(node uint32, offsets []uint64, neighbours []uint32, fn func(source, target uint32) bool) bool {
	for _, n := range neighbours[offsets[node]:offsets[node+1]] {
		g.traversed++
		if !fn(node, n) {
			return false
		}
	}
	return true
}

// Shares the adjacency arrays; only the traversal counter is private.
func (g *CSR) ConcurrentCopy() Graph {
	cp := *g
	cp.traversed = 0
	return &cp
}

// Relationships visited through this handle.
func (g *CSR) Traversed() uint64 {
	return g.traversed
}

// Raw id of a dense node id. Identity if the graph was not remapped.
func (g *CSR) RawID(node uint32) uint32 {
	if g.rawIds == nil {
		return node
	}
	return g.rawIds[node]
}

// Dense to raw id mapping, nil if ids were not remapped.
func (g *CSR) RawIDs() []uint32 {
	return g.rawIds
}

func (g *CSR) Undirected() bool {
	return g.undirected
}
