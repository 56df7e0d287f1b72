package main

import (
	"bufio"
	"io"
	"strconv"

	"github.com/ScottSallinen/pregel/graph"
	"github.com/ScottSallinen/pregel/utils"
)

// Reads an edge list and writes its edges back out in random order, one "src dst" per line.
// Comments and any fields after dst are dropped.
func ShuffleEdges(in io.Reader, out io.Writer) (count int, err error) {
	var edges []graph.RawEdge
	if err := graph.ReadEdges(in, func(e graph.RawEdge) { edges = append(edges, e) }); err != nil {
		return 0, err
	}
	utils.Shuffle(edges)

	w := bufio.NewWriter(out)
	var line []byte
	for _, e := range edges {
		line = strconv.AppendUint(line[:0], uint64(e.SrcRaw), 10)
		line = append(line, ' ')
		line = strconv.AppendUint(line, uint64(e.DstRaw), 10)
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return 0, err
		}
	}
	return len(edges), w.Flush()
}
