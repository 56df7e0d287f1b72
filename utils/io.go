package utils

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"unsafe"

	"github.com/rs/zerolog/log"
)

func init() {
	checkCompiler()
}

// Enforces a 64bit machine due to assumptions about size of ints.
func checkCompiler() {
	myInt := int(math.MaxInt64) // Shouldn't compile on a 32 bit system.
	myInt64 := int64(math.MaxInt64)
	if uint64(myInt) != uint64(myInt64) {
		panic("Must be on 64 bit system.")
	}
}

func OpenFile(path string) (file *os.File) {
	file, err := os.Open(path)
	if err != nil {
		log.Panic().Err(err).Msg("Failed to open file: " + path)
	}
	return file
}

func CreateFile(path string) (file *os.File) {
	file, err := os.Create(path)
	if err != nil {
		log.Panic().Err(err).Msg("Failed to create file: " + path)
	}
	return file
}

// Checked decimal parse of a node id.
func ParseUint32(buf string) (n uint32, err error) {
	if len(buf) == 0 {
		return 0, fmt.Errorf("empty id")
	}
	var acc uint64
	for i := 0; i < len(buf); i++ {
		d := buf[i] - '0'
		if d > 9 {
			return 0, fmt.Errorf("invalid id %q", buf)
		}
		acc = acc*10 + uint64(d)
		if acc > math.MaxUint32 {
			return 0, fmt.Errorf("id %q overflows uint32", buf)
		}
	}
	return uint32(acc), nil
}

// var asciiSpace = [256]uint8{'\t': 1, '\n': 1, '\v': 1, '\f': 1, '\r': 1, ' ': 1}
const SPACE_MASK = 1<<9 | 1<<10 | 1<<11 | 1<<12 | 1<<13 | 1<<32

func isByteSpace(b byte) bool {
	return ((SPACE_MASK & (1 << b)) != 0)
}

// ASCII only, no re-allocation. Points to entries in byteBuff.
// Fills at most len(fieldBuff) fields, returns how many were found.
func FastFields(fieldBuff []string, byteBuff []byte) (count int) {
	i := 0
	for i < len(byteBuff) && count < len(fieldBuff) {
		// Skip spaces before a field.
		for i < len(byteBuff) && isByteSpace(byteBuff[i]) {
			i++
		}
		if i == len(byteBuff) {
			break
		}
		fieldStart := i
		for i < len(byteBuff) && !isByteSpace(byteBuff[i]) {
			i++
		}
		b := byteBuff[fieldStart:i]
		fieldBuff[count] = *(*string)(Noescape(unsafe.Pointer(&b)))
		count++
	}
	return count
}

type FastFileLines struct {
	Buf   []byte
	Start int // First non-processed byte in buf.
	End   int // End of data in buf.
}

// Advance to the next line. Returns nil once the reader is exhausted.
// The returned slice is only valid until the next call.
func (s *FastFileLines) Scan(r io.Reader) []byte {
	var err error
	for { // Until we have a token.
		if s.End > s.Start { // See if we can get a token with what we already have.
			if i := bytes.IndexByte(s.Buf[s.Start:s.End], '\n'); i >= 0 {
				token := s.Buf[s.Start : s.Start+i]
				s.Start += i + 1
				return token
			}
		}
		// Must read more data. Shift data to beginning of buffer if there's lots of empty space.
		if s.Start > 0 && (s.Start > len(s.Buf)/2 || s.End == len(s.Buf)) {
			copy(s.Buf, s.Buf[s.Start:s.End])
			s.End -= s.Start
			s.Start = 0
		}
		if s.End == len(s.Buf) {
			log.Panic().Msg("Line too long for buffer of size " + V(len(s.Buf)))
		}
		var n int
		for loop := 0; ; loop++ {
			n, err = r.Read(s.Buf[s.End:])
			s.End += n
			if n > 0 || err != nil {
				break
			}
			if loop > 100 {
				log.Panic().Msg("Reader made no progress")
			}
		}
		if n == 0 && err != nil {
			// EOF (or failure). Return whatever is left.
			if s.End > s.Start {
				i := s.Start
				s.Start = s.End
				return s.Buf[i:s.End]
			}
			return nil
		}
	}
}
