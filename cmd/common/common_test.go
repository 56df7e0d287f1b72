package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScottSallinen/pregel/graph"
	"github.com/ScottSallinen/pregel/hugearray"
	"github.com/ScottSallinen/pregel/pregel"
)

type offsetIDs uint32

func (o offsetIDs) RawID(node uint32) uint32 {
	return node + uint32(o)
}

func Test_ExtractGraphName(t *testing.T) {
	assert.Equal(t, "test", ExtractGraphName("data/test.txt"))
	assert.Equal(t, "web", ExtractGraphName("/a/b/web.el.txt"))
	assert.Equal(t, "plain", ExtractGraphName("plain"))
}

func Test_VertexValuesText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	values := hugearray.Float64Of([]float64{0.5, 2, -1})
	require.NoError(t, WriteVertexValues(path, "g", "run", offsetIDs(10), values))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "10 0.5\n11 2\n12 -1\n", string(data))

	read, err := ReadVertexValues(path)
	require.NoError(t, err)
	assert.Equal(t, []uint32{10, 11, 12}, read.RawIDs)
	assert.Equal(t, []float64{0.5, 2, -1}, read.Values)
}

func Test_VertexValuesCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out"+COMPRESSED_SUFFIX)
	raw := make([]float64, 5000)
	for i := range raw {
		raw[i] = float64(i) / 3
	}
	require.NoError(t, WriteVertexValues(path, "big", "abc", offsetIDs(1), hugearray.Float64Of(raw)))

	read, err := ReadVertexValues(path)
	require.NoError(t, err)
	assert.Equal(t, "big", read.Graph)
	assert.Equal(t, "abc", read.RunID)
	assert.Equal(t, raw, read.Values)
	require.Len(t, read.RawIDs, len(raw))
	assert.Equal(t, uint32(1), read.RawIDs[0])
	assert.Equal(t, uint32(5000), read.RawIDs[4999])
}

func Test_ReadVertexValuesMissing(t *testing.T) {
	_, err := ReadVertexValues(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func Test_LoadOptionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.yaml")
	yaml := "graph: data/test.txt\nundirected: true\ntopN: 3\npregel:\n  maxSupersteps: 7\n  direction: both\n  queue: unbounded\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	options := Options{Pregel: pregel.DefaultConfig()}
	require.NoError(t, LoadOptionsFile(path, &options))
	assert.Equal(t, "data/test.txt", options.Graph)
	assert.True(t, options.Undirected)
	assert.Equal(t, 3, options.TopN)
	assert.Equal(t, 7, options.Pregel.MaxSupersteps)
	assert.Equal(t, graph.BOTH, options.Pregel.Direction)
	assert.Equal(t, pregel.QueueUnbounded, options.Pregel.Queue)
	assert.Equal(t, pregel.DEFAULT_BATCH_SIZE, options.Pregel.BatchSize)
}

type countProgram struct{}

func (countProgram) Compute(ctx *pregel.Context, messages *pregel.Messages) error {
	if ctx.IsInitialSuperstep() {
		ctx.SendToNeighbors(1)
		return nil
	}
	sum := 0.0
	for messages.Next() {
		sum += messages.Value()
	}
	ctx.SetValue(sum)
	ctx.VoteToHalt()
	return nil
}

func Test_LoadGraphAndLaunch(t *testing.T) {
	out := filepath.Join(t.TempDir(), "in-degree.txt")
	options := Options{
		Graph:  "../../data/test.txt",
		Pregel: pregel.DefaultConfig(),
		Output: out,
		TopN:   2,
	}
	options.Pregel.Concurrency = 2

	g := LoadGraph(options)
	require.Equal(t, uint32(6), g.NodeCount())

	result := Launch(options, g, func() pregel.VertexProgram { return countProgram{} })
	assert.True(t, result.Converged)
	assert.Equal(t, 2, result.Supersteps)

	read, err := ReadVertexValues(out)
	require.NoError(t, err)
	inDegree := map[uint32]float64{}
	for i, raw := range read.RawIDs {
		inDegree[raw] = read.Values[i]
	}
	assert.Equal(t, map[uint32]float64{1: 1, 2: 1, 3: 2, 4: 2, 5: 1, 6: 1}, inDegree)
}

type failingWriter struct{ after int }

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.after < len(p) {
		return 0, errors.New("disk full")
	}
	f.after -= len(p)
	return len(p), nil
}

func Test_WriteErrorsAreReturned(t *testing.T) {
	values := hugearray.Float64Of(make([]float64, 10000))
	assert.ErrorContains(t, writeText(&failingWriter{after: 100}, offsetIDs(0), values), "disk full")
	assert.ErrorContains(t, writeCompressed(&failingWriter{after: 10}, "g", "r", offsetIDs(0), values), "disk full")
}

func Test_WriteVertexValuesFullDevice(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("no /dev/full")
	}
	dir := t.TempDir()
	values := hugearray.Float64Of([]float64{1, 2, 3})
	for _, name := range []string{"out.txt", "out" + COMPRESSED_SUFFIX} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.Symlink("/dev/full", path))
		assert.Error(t, WriteVertexValues(path, "g", "r", offsetIDs(0), values), name)
	}
}
