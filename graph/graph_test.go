package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func neighbours(g Graph, node uint32, dir Direction) (out []uint32) {
	g.ForEachRelationship(node, dir, func(source, target uint32) bool {
		if source != node {
			panic("source must be the visited node")
		}
		out = append(out, target)
		return true
	})
	return out
}

func TestCSRDirections(t *testing.T) {
	// 0 -> 1, 0 -> 2, 2 -> 1, node 3 isolated.
	g := FromEdges(4, [][2]uint32{{0, 1}, {0, 2}, {2, 1}}, false, true)

	assert.Equal(t, uint32(4), g.NodeCount())
	assert.Equal(t, uint64(3), g.RelationshipCount())
	assert.True(t, g.HasReverseDegree())

	assert.Equal(t, []uint32{1, 2}, neighbours(g, 0, OUTGOING))
	assert.Equal(t, []uint32{0, 2}, neighbours(g, 1, INCOMING))
	assert.Equal(t, []uint32{1, 0}, neighbours(g, 2, BOTH))
	assert.Nil(t, neighbours(g, 3, BOTH))

	assert.Equal(t, 2, g.Degree(0, OUTGOING))
	assert.Equal(t, 2, g.Degree(1, INCOMING))
	assert.Equal(t, 2, g.Degree(2, BOTH))
	assert.Equal(t, 0, g.Degree(3, BOTH))
}

func TestCSRWithoutReverse(t *testing.T) {
	g := FromEdges(3, [][2]uint32{{0, 1}, {1, 2}}, false, false)
	assert.False(t, g.HasReverseDegree())
	assert.True(t, g.SupportsDirection(OUTGOING))
	assert.False(t, g.SupportsDirection(INCOMING))
	assert.False(t, g.SupportsDirection(BOTH))
	assert.Panics(t, func() { g.Degree(1, INCOMING) })
}

func TestCSRUndirected(t *testing.T) {
	g := FromEdges(3, [][2]uint32{{0, 1}, {1, 2}, {2, 2}}, true, false)
	assert.True(t, g.Undirected())
	assert.True(t, g.HasReverseDegree())
	assert.True(t, g.SupportsDirection(INCOMING))
	assert.Equal(t, uint64(5), g.RelationshipCount()) // Self loop is not mirrored.
	assert.Equal(t, []uint32{0, 2}, neighbours(g, 1, BOTH))
	assert.Equal(t, 2, g.Degree(1, BOTH))
	assert.Equal(t, g.Degree(2, OUTGOING), g.Degree(2, INCOMING))
}

func TestEarlyStop(t *testing.T) {
	g := FromEdges(4, [][2]uint32{{0, 1}, {0, 2}, {0, 3}, {1, 0}}, false, true)
	count := 0
	g.ForEachRelationship(0, BOTH, func(_, _ uint32) bool {
		count++
		return count < 2
	})
	assert.Equal(t, 2, count)
}

func TestConcurrentCopy(t *testing.T) {
	g := FromEdges(3, [][2]uint32{{0, 1}, {0, 2}}, false, false)
	cp := g.ConcurrentCopy().(*CSR)
	neighbours(cp, 0, OUTGOING)
	assert.Equal(t, uint64(2), cp.Traversed())
	assert.Zero(t, g.Traversed())
	assert.Equal(t, neighbours(g, 0, OUTGOING), neighbours(cp, 0, OUTGOING))
}

func TestBuilderTranspose(t *testing.T) {
	b := NewBuilder(2)
	b.Transpose = true
	b.AddEdge(0, 1)
	b.AddEdge(0, 2)
	g := b.Build()
	assert.Equal(t, 0, g.Degree(0, OUTGOING))
	assert.Equal(t, []uint32{0}, neighbours(g, 2, OUTGOING))
}

func TestLoadEdgeListRemaps(t *testing.T) {
	input := "# comment\n% also comment\n100 200 0.5\n\n200 300\n100 300\r\n  300\t100"
	g, err := LoadEdgeListFrom(strings.NewReader(input), LoadOptions{Reverse: true})
	require.NoError(t, err)

	assert.Equal(t, uint32(3), g.NodeCount())
	assert.Equal(t, uint64(4), g.RelationshipCount())
	assert.Equal(t, []uint32{100, 200, 300}, g.RawIDs())
	assert.Equal(t, uint32(300), g.RawID(2))
	assert.Equal(t, []uint32{1, 2}, neighbours(g, 0, OUTGOING))
	assert.Equal(t, []uint32{0}, neighbours(g, 2, OUTGOING))
	assert.Equal(t, []uint32{1, 0}, neighbours(g, 2, INCOMING))
}

func TestLoadEdgeListNoRemapAndUndirected(t *testing.T) {
	g, err := LoadEdgeListFrom(strings.NewReader("0 3\n1 2\n"), LoadOptions{NoRemap: true, Undirected: true})
	require.NoError(t, err)
	assert.Equal(t, uint32(4), g.NodeCount())
	assert.Nil(t, g.RawIDs())
	assert.Equal(t, uint32(3), g.RawID(3))
	assert.Equal(t, []uint32{0}, neighbours(g, 3, OUTGOING))
}

func TestLoadEdgeListErrors(t *testing.T) {
	_, err := LoadEdgeListFrom(strings.NewReader("0 1\n2\n"), LoadOptions{})
	assert.ErrorContains(t, err, "line 2")

	_, err = LoadEdgeListFrom(strings.NewReader("0 x\n"), LoadOptions{})
	assert.ErrorContains(t, err, "invalid id")

	_, err = LoadEdgeList("does-not-exist.txt", LoadOptions{})
	assert.Error(t, err)
}

func TestLoadEdgeListLarge(t *testing.T) {
	sb := strings.Builder{}
	const count = EDGE_CHUNK_SIZE*3 + 17
	for i := 0; i < count; i++ {
		sb.WriteString("1 ")
		sb.WriteString(string(rune('0' + i%10)))
		sb.WriteString("\n")
	}
	g, err := LoadEdgeListFrom(strings.NewReader(sb.String()), LoadOptions{NoRemap: true})
	require.NoError(t, err)
	assert.Equal(t, uint64(count), g.RelationshipCount())
	assert.Equal(t, count, g.Degree(1, OUTGOING))
}

func TestLoadTestFile(t *testing.T) {
	g, err := LoadEdgeList("../data/test.txt", LoadOptions{Reverse: true})
	require.NoError(t, err)
	s := LogStats(g)
	assert.Equal(t, uint32(6), s.Nodes)
	assert.Equal(t, uint64(8), s.Relationships)
	assert.Equal(t, uint32(1), s.Sinks)
	assert.Equal(t, uint32(0), s.Isolated)
	assert.Equal(t, 3, s.MaxOutDegree)
	assert.Equal(t, 1, s.MedianDegree)
	assert.Equal(t, 3, s.P95Degree)
}

func TestReadEdgesInOrder(t *testing.T) {
	var got []RawEdge
	err := ReadEdges(strings.NewReader("# c\n7 8\n\n8 9 extra\n% c\n9 7\n"), func(e RawEdge) { got = append(got, e) })
	require.NoError(t, err)
	assert.Equal(t, []RawEdge{{7, 8}, {8, 9}, {9, 7}}, got)

	got = nil
	err = ReadEdges(strings.NewReader("1 2\n3\n4 5\n"), func(e RawEdge) { got = append(got, e) })
	assert.ErrorContains(t, err, "line 2")
	assert.Equal(t, []RawEdge{{1, 2}}, got)
}

func TestDirection(t *testing.T) {
	assert.Equal(t, INCOMING, OUTGOING.Reverse())
	assert.Equal(t, OUTGOING, INCOMING.Reverse())
	assert.Equal(t, BOTH, BOTH.Reverse())

	for _, d := range []Direction{OUTGOING, INCOMING, BOTH} {
		parsed, err := ParseDirection(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}
	var d Direction
	require.NoError(t, d.UnmarshalText([]byte("Undirected")))
	assert.Equal(t, BOTH, d)
	assert.Error(t, d.UnmarshalText([]byte("sideways")))
	assert.Equal(t, "Direction(9)", Direction(9).String())
}
