// Package hugearray provides paged arrays addressable by a 64-bit index.
// Pages are allocated up front so that slots never move, which makes atomic
// single-slot access safe while other slots are being written concurrently.
package hugearray

import (
	"github.com/ScottSallinen/pregel/enforce"
	"github.com/ScottSallinen/pregel/utils"
)

const (
	PAGE_SHIFT = 14
	PAGE_SIZE  = 1 << PAGE_SHIFT
	PAGE_MASK  = PAGE_SIZE - 1
)

// Computes offsets for pages.
func indexToPage(idx uint64) (page, pos uint64) {
	return idx >> PAGE_SHIFT, idx & PAGE_MASK
}

type Float64 struct {
	pages [][]float64
	size  uint64
}

// Allocates a zeroed array of the given size. The last page is trimmed to fit.
func NewFloat64(size uint64) *Float64 {
	numPages := utils.CeilDiv(size, PAGE_SIZE)
	a := &Float64{pages: make([][]float64, numPages), size: size}
	for p := uint64(0); p < numPages; p++ {
		pageLen := uint64(PAGE_SIZE)
		if p == numPages-1 && size&PAGE_MASK != 0 {
			pageLen = size & PAGE_MASK
		}
		a.pages[p] = make([]float64, pageLen)
	}
	return a
}

// Wraps an existing slice, copying it into pages.
func Float64Of(values []float64) *Float64 {
	a := NewFloat64(uint64(len(values)))
	for p := range a.pages {
		copy(a.pages[p], values[p<<PAGE_SHIFT:])
	}
	return a
}

func (a *Float64) Size() uint64 {
	return a.size
}

func (a *Float64) slot(idx uint64) *float64 {
	enforce.ENFORCE(idx < a.size, "index", idx, "out of bounds for size", a.size)
	page, pos := indexToPage(idx)
	return &a.pages[page][pos]
}

// Atomic read of a single slot.
func (a *Float64) Get(idx uint64) float64 {
	return utils.AtomicLoadFloat64(a.slot(idx))
}

// Atomic write of a single slot.
func (a *Float64) Set(idx uint64, value float64) {
	utils.AtomicStoreFloat64(a.slot(idx), value)
}

// Sets every slot. Not safe to call while other goroutines access the array.
func (a *Float64) Fill(value float64) {
	for _, page := range a.pages {
		for i := range page {
			page[i] = value
		}
	}
}

// Calls fn for every slot in index order until it returns false.
func (a *Float64) ForEach(fn func(idx uint64, value float64) bool) {
	idx := uint64(0)
	for _, page := range a.pages {
		for i := range page {
			if !fn(idx, utils.AtomicLoadFloat64(&page[i])) {
				return
			}
			idx++
		}
	}
}

// Copies the array into a single newly allocated slice.
func (a *Float64) ToSlice() []float64 {
	out := make([]float64, 0, a.size)
	for _, page := range a.pages {
		out = append(out, page...)
	}
	return out
}

// Drops the pages. Returns the number of bytes that were held. Later accesses panic.
func (a *Float64) Release() (freed uint64) {
	if a.pages == nil {
		return 0
	}
	freed = MemoryEstimate(a.size)
	a.pages = nil
	a.size = 0
	return freed
}

// Bytes needed for an array of the given size, including the page table.
func MemoryEstimate(size uint64) uint64 {
	numPages := utils.CeilDiv(size, PAGE_SIZE)
	const sliceHeader = 24
	return size*8 + numPages*sliceHeader + sliceHeader
}

// Sums all values.
func (a *Float64) Sum() (sum float64) {
	a.ForEach(func(_ uint64, v float64) bool {
		sum += v
		return true
	})
	return sum
}
