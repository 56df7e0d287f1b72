package hugearray

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaging(t *testing.T) {
	size := uint64(PAGE_SIZE*2 + 7)
	a := NewFloat64(size)
	require.Len(t, a.pages, 3)
	assert.Len(t, a.pages[2], 7)
	assert.Equal(t, size, a.Size())

	a.Set(0, 1.5)
	a.Set(PAGE_SIZE, 2.5)
	a.Set(size-1, 3.5)
	assert.Equal(t, 1.5, a.Get(0))
	assert.Equal(t, 2.5, a.Get(PAGE_SIZE))
	assert.Equal(t, 3.5, a.Get(size-1))
	assert.Equal(t, 7.5, a.Sum())
}

func TestExactPageMultiple(t *testing.T) {
	a := NewFloat64(PAGE_SIZE)
	require.Len(t, a.pages, 1)
	assert.Len(t, a.pages[0], PAGE_SIZE)

	empty := NewFloat64(0)
	assert.Empty(t, empty.pages)
	assert.Empty(t, empty.ToSlice())
	assert.Zero(t, empty.Sum())
}

func TestFillForEachToSlice(t *testing.T) {
	a := NewFloat64(PAGE_SIZE + 3)
	a.Fill(0.25)
	count := 0
	a.ForEach(func(idx uint64, v float64) bool {
		assert.Equal(t, 0.25, v)
		count++
		return true
	})
	assert.Equal(t, PAGE_SIZE+3, count)

	stopped := 0
	a.ForEach(func(idx uint64, v float64) bool {
		stopped++
		return idx < 9
	})
	assert.Equal(t, 10, stopped)

	values := []float64{1, 2, 3, math.NaN()}
	b := Float64Of(values)
	out := b.ToSlice()
	assert.Equal(t, values[:3], out[:3])
	assert.True(t, math.IsNaN(out[3]))
}

func TestOutOfBoundsPanics(t *testing.T) {
	a := NewFloat64(4)
	assert.Panics(t, func() { a.Get(4) })
	assert.Panics(t, func() { a.Set(100, 1) })
}

func TestRelease(t *testing.T) {
	a := NewFloat64(PAGE_SIZE * 2)
	assert.Equal(t, MemoryEstimate(PAGE_SIZE*2), a.Release())
	assert.Zero(t, a.Release())
	assert.Panics(t, func() { a.Get(0) })
}

func TestMemoryEstimate(t *testing.T) {
	assert.Equal(t, uint64(24), MemoryEstimate(0))
	assert.Equal(t, uint64(8*PAGE_SIZE+24+24), MemoryEstimate(PAGE_SIZE))
	assert.Equal(t, uint64(8*(PAGE_SIZE+1)+2*24+24), MemoryEstimate(PAGE_SIZE+1))
}

func TestConcurrentDistinctSlots(t *testing.T) {
	const workers = 8
	size := uint64(PAGE_SIZE * 3)
	a := NewFloat64(size)
	wg := sync.WaitGroup{}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := uint64(w); i < size; i += workers {
				a.Set(i, float64(i))
			}
		}(w)
	}
	wg.Wait()
	for i := uint64(0); i < size; i++ {
		require.Equal(t, float64(i), a.Get(i))
	}
}
