// Package graph holds the read-only topology a computation runs over:
// a compressed sparse row store, its builder, and an edge list loader.
package graph

// Read-only view of a graph with dense node ids in [0, NodeCount()).
type Graph interface {
	NodeCount() uint32
	RelationshipCount() uint64
	// Number of relationships of the node in the given direction. BOTH counts both sides.
	Degree(node uint32, dir Direction) int
	// Calls fn with (node, neighbour) for each relationship in the given direction, until fn returns false.
	ForEachRelationship(node uint32, dir Direction, fn func(source, target uint32) bool)
	// An independent traversal handle, safe to use from a single other goroutine.
	ConcurrentCopy() Graph
	// True when INCOMING degrees are available without scanning the graph.
	HasReverseDegree() bool
	SupportsDirection(dir Direction) bool
}
