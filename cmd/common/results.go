package common

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ScottSallinen/pregel/hugearray"
	"github.com/ScottSallinen/pregel/utils"
)

const COMPRESSED_SUFFIX = ".msgpack.zst"

// Anything that can translate dense node ids back to the ids of the input file.
type RawIDer interface {
	RawID(node uint32) uint32
}

// On disk form of the compressed result file.
type VertexValues struct {
	Graph  string    `msgpack:"graph"`
	RunID  string    `msgpack:"run_id"`
	RawIDs []uint32  `msgpack:"raw_ids"`
	Values []float64 `msgpack:"values"`
}

func ExtractGraphName(graphFilename string) (graphName string) {
	gNameMainT := strings.Split(graphFilename, "/")
	gNameMain := gNameMainT[len(gNameMainT)-1]
	gNameMainTD := strings.Split(gNameMain, ".")
	if len(gNameMainTD) > 1 {
		return gNameMainTD[len(gNameMainTD)-2]
	}
	return gNameMainTD[0]
}

// Writes one "rawId value" line per node, or the msgpack+zstd form when path ends in COMPRESSED_SUFFIX.
// A failure to flush or close the file is returned like any write error.
func WriteVertexValues(path string, graphName string, runID string, ids RawIDer, values *hugearray.Float64) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	if strings.HasSuffix(path, COMPRESSED_SUFFIX) {
		return writeCompressed(file, graphName, runID, ids, values)
	}
	return writeText(file, ids, values)
}

func writeText(out io.Writer, ids RawIDer, values *hugearray.Float64) (err error) {
	w := bufio.NewWriter(out)
	var line []byte
	values.ForEach(func(idx uint64, value float64) bool {
		line = strconv.AppendUint(line[:0], uint64(ids.RawID(uint32(idx))), 10)
		line = append(line, ' ')
		line = strconv.AppendFloat(line, value, 'g', -1, 64)
		line = append(line, '\n')
		_, err = w.Write(line)
		return err == nil
	})
	if err != nil {
		return err
	}
	return w.Flush()
}

func writeCompressed(out io.Writer, graphName string, runID string, ids RawIDer, values *hugearray.Float64) error {
	vv := VertexValues{
		Graph:  graphName,
		RunID:  runID,
		RawIDs: make([]uint32, values.Size()),
		Values: values.ToSlice(),
	}
	for i := range vv.RawIDs {
		vv.RawIDs[i] = ids.RawID(uint32(i))
	}
	data, err := msgpack.Marshal(&vv)
	if err != nil {
		return fmt.Errorf("encode values: %w", err)
	}
	enc, err := zstd.NewWriter(out)
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Reads a file written by WriteVertexValues in either form.
func ReadVertexValues(path string) (VertexValues, error) {
	file, err := os.Open(path)
	if err != nil {
		return VertexValues{}, err
	}
	defer file.Close()

	var vv VertexValues
	if strings.HasSuffix(path, COMPRESSED_SUFFIX) {
		dec, err := zstd.NewReader(file)
		if err != nil {
			return vv, err
		}
		defer dec.Close()
		if err := msgpack.NewDecoder(dec).Decode(&vv); err != nil {
			return vv, fmt.Errorf("decode values: %w", err)
		}
		return vv, nil
	}

	lines := utils.FastFileLines{Buf: make([]byte, 1<<16)}
	fields := make([]string, 2)
	for line := lines.Scan(file); line != nil; line = lines.Scan(file) {
		if utils.FastFields(fields, line) < 2 {
			continue
		}
		raw, err := utils.ParseUint32(fields[0])
		if err != nil {
			return vv, err
		}
		value, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return vv, err
		}
		vv.RawIDs = append(vv.RawIDs, raw)
		vv.Values = append(vv.Values, value)
	}
	return vv, nil
}

// Logs the n largest values with their raw ids.
func PrintTopN(values *hugearray.Float64, ids RawIDer, n uint32) {
	if n == 0 {
		return
	}
	top := utils.FindTopNInArray(values.ToSlice(), n)
	log.Info().Msg("Top " + utils.V(len(top)) + ":")
	log.Info().Msg("pos,      rawId,            value")
	for i, entry := range top {
		log.Info().Msg(utils.F("%3d,", i) + utils.F("%11d,", ids.RawID(entry.First)) + utils.F("%17.6f", entry.Second))
	}
}
