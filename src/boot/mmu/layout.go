package mmu

import "awaken/src/hardware/rpi"

// sizes of the 4KB granule, level 1 walk (T0SZ = 25)
const (
	EntriesPerTable = 512
	TableSize       = EntriesPerTable * 8
	BlockShift      = 21
	BlockSize       = 1 << BlockShift             // 2MB, one second level entry
	SlotSize        = EntriesPerTable * BlockSize // 1GB, one top level entry
	MaxTopSlots     = 4
)

// Layout is the physical address range a variant maps 1:1 and where the
// device region of it starts.
type Layout struct {
	Name           string
	TopSlots       int
	PeripheralBase uint64
}

// AArch64Layout covers [0, 2GB).
var AArch64Layout = Layout{Name: "aarch64", TopSlots: 2, PeripheralBase: uint64(rpi.MemoryMappedIO)}

// AArch32Layout covers the whole 32 bit space, [0, 4GB).
var AArch32Layout = Layout{Name: "aarch32", TopSlots: 4, PeripheralBase: uint64(rpi.MemoryMappedIO)}

// Blocks is the number of second level entries in use.
func (l Layout) Blocks() int {
	return l.TopSlots * EntriesPerTable
}

// Size is the number of bytes mapped.
func (l Layout) Size() uint64 {
	return uint64(l.TopSlots) * SlotSize
}

// FirstDeviceBlock is the index of the first block mapped as device memory.
func (l Layout) FirstDeviceBlock() int {
	return int(l.PeripheralBase >> BlockShift)
}

// Block returns the level 2 block descriptor of block index: identity mapped,
// access flag set, normal inner shareable write-back memory below the
// peripheral base and device-nGnRnE memory from it upward.
func Block(l Layout, index int) uint64 {
	d := uint64(index)<<BlockShift | descriptorAccessFlag | descriptorBlock
	if index < l.FirstDeviceBlock() {
		return d | descriptorInnerShareable<<descriptorShareShift |
			uint64(NormalWriteBack)<<descriptorAttrShift
	}
	return d | uint64(DeviceNGnRnE)<<descriptorAttrShift
}
