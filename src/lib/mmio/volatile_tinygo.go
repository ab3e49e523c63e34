//go:build tinygo

package mmio

import (
	"runtime/volatile"
	"unsafe"
)

// Volatile is the device Bus: every access is a single volatile load or
// store at the physical address (the MMU maps memory 1:1).
type Volatile struct{}

// Physical is the bus used by the device image.
var Physical Bus = Volatile{}

func (Volatile) Read32(addr uintptr) uint32 {
	return volatile.LoadUint32((*uint32)(unsafe.Pointer(addr)))
}

func (Volatile) Write32(addr uintptr, v uint32) {
	volatile.StoreUint32((*uint32)(unsafe.Pointer(addr)), v)
}

func (Volatile) Read64(addr uintptr) uint64 {
	return volatile.LoadUint64((*uint64)(unsafe.Pointer(addr)))
}

func (Volatile) Write64(addr uintptr, v uint64) {
	volatile.StoreUint64((*uint64)(unsafe.Pointer(addr)), v)
}
