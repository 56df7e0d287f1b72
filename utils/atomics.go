package utils

import (
	"sync/atomic"
	"unsafe"
)

//go:nosplit
func Noescape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}

//go:nosplit
func AtomicLoadFloat64[T ~float64](targetVal *T) T {
	return floatFromBits[T](atomic.LoadUint64((*uint64)(Noescape(unsafe.Pointer(targetVal)))))
}

//go:nosplit
func AtomicStoreFloat64[T ~float64](targetVal *T, new T) {
	atomic.StoreUint64((*uint64)(Noescape(unsafe.Pointer(targetVal))), floatBits(new))
}

//go:nosplit
func floatFromBits[T ~float64](b uint64) T {
	return *(*T)((unsafe.Pointer(&b)))
}

//go:nosplit
func floatBits[T ~float64](f T) uint64 {
	return *(*uint64)((unsafe.Pointer(&f)))
}
