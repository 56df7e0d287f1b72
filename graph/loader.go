package graph

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/pregel/utils"
)

const (
	LINE_BUFFER_SIZE = 1 << 20
	EDGE_CHUNK_SIZE  = 1 << 12
	CHUNK_QUEUE_SIZE = 64
)

type LoadOptions struct {
	Undirected bool // Mirror every edge.
	Transpose  bool // Flip src and dst of every edge.
	Reverse    bool // Build the incoming index, needed for INCOMING/BOTH traversal and bounded inboxes.
	NoRemap    bool // Use raw ids as dense ids directly (raw ids must already be small).
}

type RawEdge struct {
	SrcRaw uint32
	DstRaw uint32
}

type edgeChunk struct {
	edges []RawEdge
	err   error
}

// Loads a whitespace separated "src dst [ignored...]" edge list. Lines starting with '#' or '%' are skipped.
func LoadEdgeList(path string, opts LoadOptions) (*CSR, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	watch := utils.Watch{}
	watch.Start()
	g, err := LoadEdgeListFrom(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Info().Msg("Loaded " + path + " nodes: " + utils.V(g.NodeCount()) + " relationships: " + utils.V(g.RelationshipCount()) +
		" in (ms): " + utils.V(watch.Elapsed().Milliseconds()))
	return g, nil
}

// As LoadEdgeList, from any reader. Parsing runs on its own goroutine and hands chunks of edges to the builder.
func LoadEdgeListFrom(r io.Reader, opts LoadOptions) (*CSR, error) {
	b := NewBuilder(EDGE_CHUNK_SIZE)
	b.Undirected = opts.Undirected
	b.Transpose = opts.Transpose
	b.Reverse = opts.Reverse

	remap := make(map[uint32]uint32)
	var rawIds []uint32
	dense := func(raw uint32) uint32 {
		if opts.NoRemap {
			return raw
		}
		id, ok := remap[raw]
		if !ok {
			id = uint32(len(rawIds))
			remap[raw] = id
			rawIds = append(rawIds, raw)
		}
		return id
	}

	err := ReadEdges(r, func(e RawEdge) {
		b.AddEdge(dense(e.SrcRaw), dense(e.DstRaw))
	})
	if err != nil {
		return nil, err
	}
	if !opts.NoRemap {
		b.SetRawIDs(rawIds)
	}
	return b.Build(), nil
}

// Calls fn for every edge of the list, in file order, on the calling goroutine.
// Stops at the first malformed line and returns its error.
func ReadEdges(r io.Reader, fn func(RawEdge)) error {
	rb := utils.RingBuffSPSC[edgeChunk]{}
	rb.Init(CHUNK_QUEUE_SIZE)
	go parseEdges(r, &rb)

	var readErr error
	chunks, waits := 0, 0
	for {
		chunk, closed, fails := rb.Get()
		waits += fails
		if closed {
			break
		}
		chunks++
		if chunk.err != nil {
			readErr = chunk.err
			continue // Drain so the parser can finish.
		}
		if readErr != nil {
			continue
		}
		for _, e := range chunk.edges {
			fn(e)
		}
	}
	log.Trace().Msg("Edge chunks: " + utils.V(chunks) + " ring capacity: " + utils.V(rb.Cap()) + " empty polls: " + utils.V(waits))
	rb.End()
	return readErr
}

func parseEdges(r io.Reader, rb *utils.RingBuffSPSC[edgeChunk]) {
	defer rb.Close()
	lines := utils.FastFileLines{Buf: make([]byte, LINE_BUFFER_SIZE)}
	fields := make([]string, 2)
	chunk := make([]RawEdge, 0, EDGE_CHUNK_SIZE)
	lineNum := 0
	fail := func(err error) {
		if len(chunk) > 0 {
			rb.Put(edgeChunk{edges: chunk})
		}
		rb.Put(edgeChunk{err: fmt.Errorf("line %d: %w", lineNum, err)})
	}

	for line := lines.Scan(r); line != nil; line = lines.Scan(r) {
		lineNum++
		if len(line) == 0 || line[0] == '#' || line[0] == '%' {
			continue
		}
		n := utils.FastFields(fields, line)
		if n == 0 {
			continue
		}
		if n < 2 {
			fail(fmt.Errorf("expected src and dst, got %q", string(line)))
			return
		}
		src, err := utils.ParseUint32(fields[0])
		if err != nil {
			fail(err)
			return
		}
		dst, err := utils.ParseUint32(fields[1])
		if err != nil {
			fail(err)
			return
		}
		chunk = append(chunk, RawEdge{src, dst})
		if len(chunk) == EDGE_CHUNK_SIZE {
			rb.Put(edgeChunk{edges: chunk})
			chunk = make([]RawEdge, 0, EDGE_CHUNK_SIZE)
		}
	}
	if len(chunk) > 0 {
		rb.Put(edgeChunk{edges: chunk})
	}
}
