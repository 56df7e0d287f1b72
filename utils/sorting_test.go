package utils

import "testing"

func Test_FindTopNInArray(t *testing.T) {
	arr := []float64{0.5, 3, 1, 9, 2, 8, 7}
	top := FindTopNInArray(arr, 3)
	assertEqual(t, 3, len(top), "len")
	assertEqual(t, uint32(3), top[0].First, "first")
	assertEqual(t, uint32(5), top[1].First, "second")
	assertEqual(t, uint32(6), top[2].First, "third")
	assertEqual(t, 9.0, top[0].Second, "first value")

	all := FindTopNInArray(arr, 100)
	assertEqual(t, len(arr), len(all), "clamped")
	assertEqual(t, 0.5, all[len(all)-1].Second, "smallest last")

	assertEqual(t, 0, len(FindTopNInArray([]float64{}, 3)), "empty")
}

func Test_SortGiveIndexesLargestFirst(t *testing.T) {
	arr := []uint32{4, 1, 7, 3}
	idx := SortGiveIndexesLargestFirst(arr)
	assertEqual(t, []int{2, 0, 3, 1}, idx, "order")
	assertEqual(t, []uint32{4, 1, 7, 3}, arr, "input untouched")
}
