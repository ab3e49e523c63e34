//go:build tinygo

package mmu

import "unsafe"

// reserved by the linker script, 4KB aligned and at least the size of a Table
//
//go:extern __mmu_tables
var mmuTables [unsafe.Sizeof(Table{})]byte

// Tables returns the builder of the linker reserved table.
func Tables(l Layout) *Builder {
	t := (*Table)(unsafe.Pointer(&mmuTables))
	return NewBuilder(t, uintptr(unsafe.Pointer(t)), l)
}
